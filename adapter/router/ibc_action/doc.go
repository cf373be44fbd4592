/*
Package ibcaction builds the messages an account proxy executes to reach a
venue that lives on another chain.

A remote action is a set of sibling messages executed by the proxy, in this
order:

 1. one ICS20 transfer per distinct asset the action consumes, moving it to
    the host chain

    {"ibc_action":{"msgs":[{"send_funds":{"host_chain":"osmosis","funds":[...]}}]}}

 2. the action envelope that the host chain executes once the funds arrived

    {"ibc_action":{"msgs":[{"remote_action":{
        "host_chain":"osmosis",
        "action":{"app":{"msg":"<base64 of {"action":{"dex":..,"action":..}}>"}},
        "callback_info":{"id":"abstract:dex","receiver":"juno1..."},
        "retries":3}}]}}

callback_info is only present when the caller is a contract that can receive
the completion callback. retries is a delivery ceiling the relaying layer
honours, nothing in this package loops on it.

Actions that consume nothing on the host chain (staking claims) are sent as
the envelope alone.
*/
package ibcaction

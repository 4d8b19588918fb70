/*
Package apis provides Go interfaces for the RPC APIs served by the faucet devnet.

Every interface name ending with "Client" represents a client-binding:
this provides typing and methods exclusive to the client-side.
E.g. a slog.Level argument instead of the level string sent over RPC.

Every interface name ending with "Server" represents a server-binding:
this provides typing exclusive to the server-side.
Servers should never provide methods not available in some form to the client.
These interfaces are used for type-checks of the server RPC backends.

Interface names not ending with "Client" or "Server" are generic, and can be used for both sides.
This is always preferred, to keep interfaces compatible, and perform type-checking across client/server.
*/
package apis

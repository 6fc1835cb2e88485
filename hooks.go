package session

// Hook event names fired via the HookRunner collaborator (spec §6
// "hooks.run"). The full broker this package is embedded in may define
// more; these are the ones a Session itself fires.
const (
	HookClientConnected    = "client.connected"
	HookClientSubscribe    = "client.subscribe"
	HookClientSubscribed   = "client.subscribed"
	HookClientUnsubscribe  = "client.unsubscribe"
	HookClientUnsubscribed = "client.unsubscribed"
	HookMessageAcked       = "message.acked"
	HookClientDisconnected = "client.disconnected"
)

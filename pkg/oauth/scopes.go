// Package oauth manages the OAuth2 side of the local RPC session: scope
// declarations, code/refresh-token exchange against the Discord web API (or
// a relay that holds the client secret), and persistence of the refresh
// token between runs.
package oauth

// Scope is an OAuth2 scope string as defined by Discord.
type Scope string

const (
	ScopeActivitiesRead                  Scope = "activities.read"
	ScopeActivitiesWrite                 Scope = "activities.write"
	ScopeApplicationsBuildsRead          Scope = "applications.builds.read"
	ScopeApplicationsBuildsUpload        Scope = "applications.builds.upload"
	ScopeApplicationsCommands            Scope = "applications.commands"
	ScopeApplicationsCommandsUpdate      Scope = "applications.commands.update"
	ScopeApplicationsCommandsPermsUpdate Scope = "applications.commands.permissions.update"
	ScopeApplicationsEntitlements        Scope = "applications.entitlements"
	ScopeApplicationsStoreUpdate         Scope = "applications.store.update"
	ScopeBot                             Scope = "bot"
	ScopeConnections                     Scope = "connections"
	ScopeDMChannelsRead                  Scope = "dm_channels.read"
	ScopeEmail                           Scope = "email"
	ScopeGDMJoin                         Scope = "gdm.join"
	ScopeGuilds                          Scope = "guilds"
	ScopeGuildsJoin                      Scope = "guilds.join"
	ScopeGuildsMembersRead               Scope = "guilds.members.read"
	ScopeIdentify                        Scope = "identify"
	ScopeMessagesRead                    Scope = "messages.read"
	ScopeRelationshipsRead               Scope = "relationships.read"
	ScopeRoleConnectionsWrite            Scope = "role_connections.write"
	ScopeRPC                             Scope = "rpc"
	ScopeRPCActivitiesWrite              Scope = "rpc.activities.write"
	ScopeRPCNotificationsRead            Scope = "rpc.notifications.read"
	ScopeRPCVoiceRead                    Scope = "rpc.voice.read"
	ScopeRPCVoiceWrite                   Scope = "rpc.voice.write"
	ScopeVoice                           Scope = "voice"
	ScopeWebhookIncoming                 Scope = "webhook.incoming"
)

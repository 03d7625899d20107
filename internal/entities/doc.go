// Package entities holds the Quest Forge domain records: sessions, scenes,
// stats and users. Sessions and scenes satisfy the rpg-toolkit core.Entity
// interface so they can be addressed by ID and type.
package entities

import "github.com/KirkDiggler/rpg-toolkit/core"

var (
	_ core.Entity = (*GameSession)(nil)
	_ core.Entity = (*Scene)(nil)
)

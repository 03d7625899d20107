package redis

import (
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -destination=mocks/redis.go -package=redismocks -source=interface.go

// Client is the go-redis universal client the stores depend on. Single-node,
// cluster and failover clients all satisfy it.
type Client interface {
	redis.UniversalClient
}

package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

const defaultNodeID = 1

var (
	node    *snowflake.Node
	once    sync.Once
	initErr error
)

// Init initializes the Snowflake node with the given node ID. Only the
// first call has an effect.
func Init(nodeID int64) error {
	once.Do(func() {
		node, initErr = snowflake.NewNode(nodeID)
	})
	return initErr
}

// New generates a new time-ordered int64 ID. When Init was never called the
// default node is used.
func New() int64 {
	if err := Init(defaultNodeID); err != nil {
		panic(err)
	}
	return node.Generate().Int64()
}

package idutil

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	nodeErr  error
	nodeOnce sync.Once
)

// Init sets the snowflake node number. It must be called before the first id is
// generated to take effect; otherwise node 0 is used.
func Init(nodeID int64) error {
	nodeOnce.Do(func() {
		node, nodeErr = snowflake.NewNode(nodeID)
	})
	return nodeErr
}

func NewID() (int64, error) {
	if err := Init(0); err != nil {
		return 0, err
	}

	return node.Generate().Int64(), nil
}

// NewStringID returns a base58 snowflake id, short enough for urls.
func NewStringID() (string, error) {
	if err := Init(0); err != nil {
		return "", err
	}

	return node.Generate().Base58(), nil
}

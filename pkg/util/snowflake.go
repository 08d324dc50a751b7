package util

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeMu   sync.Mutex
)

// InitSnowflake 初始化雪花算法节点，进程启动时调用一次
func InitSnowflake(node int64) error {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return err
	}
	snowflakeMu.Lock()
	snowflakeNode = n
	snowflakeMu.Unlock()
	return nil
}

// NextID 生成雪花 ID；未初始化时使用节点 1
func NextID() int64 {
	snowflakeMu.Lock()
	if snowflakeNode == nil {
		snowflakeNode, _ = snowflake.NewNode(1)
	}
	n := snowflakeNode
	snowflakeMu.Unlock()
	return n.Generate().Int64()
}

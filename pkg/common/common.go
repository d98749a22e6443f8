package common

import (
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// NA marks a field with no known value.
const NA = "N/A"

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

func node() *snowflake.Node {
	snowflakeOnce.Do(func() {
		n, err := snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
		snowflakeNode = n
	})
	return snowflakeNode
}

// UUIDint64 returns a time ordered unique int64, used as primary key.
func UUIDint64() int64 {
	return node().Generate().Int64()
}

// UUID returns a random RFC 4122 string without dashes.
func UUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsEmptyOrNA reports whether val carries no usable value.
func IsEmptyOrNA(val string) bool {
	val = strings.TrimSpace(val)
	return val == "" || val == NA
}

package id

import (
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID.
// The server uses node 1, the worker node 2 and opsctl node 3.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new time-ordered int64 ID.
func New() int64 {
	return node.Generate().Int64()
}

// shortLen is long enough to be unique among the handful of open actions in a chat.
const shortLen = 5

// Short returns a compact, case-insensitive reference for an ID that people can
// type back in chat ("yes 3k9zq").
func Short(v int64) string {
	s := strconv.FormatInt(v, 36)
	if len(s) > shortLen {
		s = s[len(s)-shortLen:]
	}
	return strings.ToUpper(s)
}

// MatchesShort reports whether ref is the Short form of v.
func MatchesShort(v int64, ref string) bool {
	ref = strings.TrimSpace(ref)
	return ref != "" && strings.EqualFold(Short(v), ref)
}

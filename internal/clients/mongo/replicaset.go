package mongo

import "sync/atomic"

// false = stand-alone, true = replica set or sharded cluster
var isReplicaSet atomic.Bool

// IsReplicaSet reports whether the current deployment supports multi-document
// transactions. Set once by Init; treat it as a hint.
func IsReplicaSet() bool { return isReplicaSet.Load() }

// helloReply is the subset of the hello command reply used to detect the
// topology. mongos answers with msg "isdbgrid".
type helloReply struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

func (h helloReply) supportsTransactions() bool {
	return h.SetName != "" || h.Msg == "isdbgrid"
}

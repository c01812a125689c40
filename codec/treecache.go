package codec

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"hsf/topology"
)

// treeCache holds at most NumTopologies built trees. The catalog is
// immutable and there are only 165 distinct shapes, so a decode-heavy run
// (many segments, few distinct topologies) rebuilds a tree at most once per
// topology instead of once per segment. Correctness does not depend on the
// cache: a miss just calls topology.TreeOf, exactly as if there were no
// cache at all.
var treeCache *lru.Cache[int, *topology.Tree]

func init() {
	c, err := lru.New[int, *topology.Tree](topology.NumTopologies)
	if err != nil {
		panic(err)
	}
	treeCache = c
}

func treeFor(top int) *topology.Tree {
	if tr, ok := treeCache.Get(top); ok {
		return tr
	}
	tr := topology.TreeOf(top)
	treeCache.Add(top, tr)
	return tr
}

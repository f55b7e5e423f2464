package tile

// Walk visits root and then every descendant in pre-order. children returns
// the direct children of a node; visit is called once per node and may mutate
// it. Children are fetched after visit runs, so visit may edit the child list.
func Walk[N any](root N, children func(N) []N, visit func(N)) {
	visit(root)
	for _, c := range children(root) {
		Walk(c, children, visit)
	}
}

package grammar

// RegionFor resolves a region name declared on a grammar, returning
// nil if the grammar has no region with that name (the unscoped,
// default case).
func (g *Grammar) RegionFor(name string) *Region {
	if name == "" {
		return nil
	}
	return g.Regions[name]
}

// ScanRegion is the region actually consulted when predicting a
// terminal whose home region is r (§4.8's addRegion): r itself, unless
// the terminal declares noPreIgnore, in which case the companion
// TokenOnlyRegion is consulted instead — which may itself be nil,
// meaning no region is recorded for that prediction.
func (r *Region) ScanRegion(noPreIgnore bool) *Region {
	if r == nil {
		return nil
	}
	if noPreIgnore {
		return r.TokenOnlyRegion
	}
	return r
}

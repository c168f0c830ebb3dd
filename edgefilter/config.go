package edgefilter

import "github.com/teranos/comex/config"

// FromConfig builds the filter chain configured under [edges]: threshold,
// then per-split top k, then pagerank. Disabled filters are left out.
func FromConfig(cfg config.EdgesConfig) Chain {
	var ch Chain
	if cfg.Threshold != nil {
		ch = append(ch, Threshold{Index: cfg.WeightIndex, Min: *cfg.Threshold})
	}
	if cfg.TopK > 0 {
		ch = append(ch, TopK{Index: cfg.WeightIndex, K: cfg.TopK})
	}
	if cfg.PageRankK > 0 {
		ch = append(ch, PageRank{K: cfg.PageRankK, Strict: cfg.PageRankStrict})
	}
	return ch
}

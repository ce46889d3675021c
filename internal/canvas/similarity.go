package canvas

import (
	"strings"

	"github.com/spoor-app/spoor/internal/models"
)

// minTokenLen filters out short stopword-like tokens before comparison.
const minTokenLen = 2

// Similarity computes token-overlap similarity between two strings on a
// [0,1] scale. Both strings are lowercased and split on whitespace, and
// tokens of length <= 2 are discarded. The score is the number of tokens
// from the first list that appear anywhere in the second, over the size
// of the larger list. The intersection test is presence-based, so a
// repeated word counts once per occurrence on the left side.
func Similarity(a, b string) float64 {
	tokensA := similarityTokens(a)
	tokensB := similarityTokens(b)

	total := len(tokensA)
	if len(tokensB) > total {
		total = len(tokensB)
	}
	if total == 0 {
		return 0
	}

	present := make(map[string]struct{}, len(tokensB))
	for _, tok := range tokensB {
		present[tok] = struct{}{}
	}

	common := 0
	for _, tok := range tokensA {
		if _, ok := present[tok]; ok {
			common++
		}
	}

	return float64(common) / float64(total)
}

func similarityTokens(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) > minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Cluster is a group of nodes whose texts overlap above a threshold,
// along with the group's geometric center.
type Cluster struct {
	Nodes   []models.Node `json:"nodes"`
	CenterX float64       `json:"centerX"`
	CenterY float64       `json:"centerY"`
}

// DefaultClusterThreshold is the pairwise similarity required for two
// nodes to land in the same cluster.
const DefaultClusterThreshold = 0.7

// Clusters greedily groups nodes by pairwise similarity. Each node seeds
// at most one cluster; later nodes join the first seed they exceed the
// threshold against. Groups of one are dropped.
func Clusters(nodes []models.Node, threshold float64) []Cluster {
	if len(nodes) < 2 {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultClusterThreshold
	}

	var clusters []Cluster
	processed := make(map[int]struct{}, len(nodes))

	for i := range nodes {
		if _, done := processed[i]; done || nodes[i].Text == "" {
			continue
		}

		group := []models.Node{nodes[i]}
		processed[i] = struct{}{}

		for j := i + 1; j < len(nodes); j++ {
			if _, done := processed[j]; done || nodes[j].Text == "" {
				continue
			}
			if Similarity(nodes[i].Text, nodes[j].Text) > threshold {
				group = append(group, nodes[j])
				processed[j] = struct{}{}
			}
		}

		if len(group) > 1 {
			cx, cy := 0.0, 0.0
			for _, n := range group {
				cx += n.X
				cy += n.Y
			}
			count := float64(len(group))
			clusters = append(clusters, Cluster{
				Nodes:   group,
				CenterX: cx / count,
				CenterY: cy / count,
			})
		}
	}

	return clusters
}

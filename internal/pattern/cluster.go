package pattern

import "sort"

// ClusterBuilder builds a co-occurrence graph from near-simultaneous
// sessions and extracts connected components.
type ClusterBuilder struct {
	windowSeconds   float64
	minCooccurrence int
	keywords        KeywordTable
}

// NewClusterBuilder creates a builder. Two sessions co-occur when their
// start times are within windowSeconds of each other.
func NewClusterBuilder(windowSeconds float64, minCooccurrence int, keywords KeywordTable) *ClusterBuilder {
	return &ClusterBuilder{
		windowSeconds:   windowSeconds,
		minCooccurrence: minCooccurrence,
		keywords:        keywords,
	}
}

// Build counts co-occurrences per unordered app pair, keeps pairs at or
// above the minimum as undirected edges, and returns the connected
// components of size >= 2 as typed clusters.
//
// Sessions arrive sorted by start time, so the pair scan advances a
// bounded sliding window instead of comparing all pairs; the cost is
// O(n * w) where w is the number of sessions inside one window.
func (b *ClusterBuilder) Build(sessions []SessionRecord) []AppCluster {
	pairCounts := b.countCooccurrences(sessions)

	adjacency := make(map[string][]string)
	for pair, count := range pairCounts {
		if count < b.minCooccurrence {
			continue
		}
		adjacency[pair[0]] = append(adjacency[pair[0]], pair[1])
		adjacency[pair[1]] = append(adjacency[pair[1]], pair[0])
	}

	components := connectedComponents(adjacency)

	clusters := make([]AppCluster, 0, len(components))
	for _, apps := range components {
		if len(apps) < 2 {
			continue
		}
		sort.Strings(apps)
		clusters = append(clusters, AppCluster{
			Apps: apps,
			Type: b.classify(apps),
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].Apps[0] < clusters[j].Apps[0]
	})
	return clusters
}

// countCooccurrences slides over the start-sorted sessions and counts
// each in-window pair once per unordered app-id pair per index pair.
func (b *ClusterBuilder) countCooccurrences(sessions []SessionRecord) map[[2]string]int {
	counts := make(map[[2]string]int)
	for i := range sessions {
		for j := i + 1; j < len(sessions); j++ {
			if sessions[j].Start.Sub(sessions[i].Start).Seconds() > b.windowSeconds {
				break
			}
			a, c := sessions[i].AppID, sessions[j].AppID
			if a == c {
				continue
			}
			if a > c {
				a, c = c, a
			}
			counts[[2]string{a, c}]++
		}
	}
	return counts
}

// connectedComponents walks the undirected adjacency map breadth-first.
// Roots are visited in sorted order so component membership and output
// order are deterministic.
func connectedComponents(adjacency map[string][]string) [][]string {
	nodes := make([]string, 0, len(adjacency))
	for app := range adjacency {
		nodes = append(nodes, app)
	}
	sort.Strings(nodes)

	visited := make(map[string]bool)
	var components [][]string
	for _, root := range nodes {
		if visited[root] {
			continue
		}
		var component []string
		queue := []string{root}
		visited[root] = true
		for len(queue) > 0 {
			app := queue[0]
			queue = queue[1:]
			component = append(component, app)
			neighbors := append([]string(nil), adjacency[app]...)
			sort.Strings(neighbors)
			for _, next := range neighbors {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		components = append(components, component)
	}
	return components
}

// classify applies the priority-ordered type rules against the keyword
// table.
func (b *ClusterBuilder) classify(apps []string) string {
	switch {
	case b.keywords.MatchCount(apps, CategoryWork) >= 2:
		return ClusterWork
	case b.keywords.MatchCount(apps, CategoryCommunication) >= 2:
		return ClusterCommunication
	case b.keywords.MatchCount(apps, CategoryBrowser) >= 1:
		return ClusterBrowsing
	default:
		return ClusterMixed
	}
}

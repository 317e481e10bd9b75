package services

import (
	"sort"
	"strconv"

	"course-feedback-api/models"
)

// Closed rating parameter sets. Theory subjects are rated on p1..p10,
// labs on l1..l8; a submission must cover its subject's full set and
// nothing else.
var (
	TheoryParams = []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9", "p10"}
	LabParams    = []string{"l1", "l2", "l3", "l4", "l5", "l6", "l7", "l8"}
)

const (
	MinRating = 1
	MaxRating = 5
)

// ParamsForKind returns the parameter set for a subject kind. Any kind
// other than lab rates on the theory set.
func ParamsForKind(kind string) []string {
	if kind == models.KindLab {
		return LabParams
	}
	return TheoryParams
}

// sortParamKeys orders parameter keys numeric-aware (p1, p2, ..., p10),
// not as plain strings.
func sortParamKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		pi, ni := splitParamKey(keys[i])
		pj, nj := splitParamKey(keys[j])
		if pi != pj {
			return pi < pj
		}
		if ni != nj {
			return ni < nj
		}
		return keys[i] < keys[j]
	})
}

func splitParamKey(key string) (string, int) {
	i := 0
	for i < len(key) && (key[i] < '0' || key[i] > '9') {
		i++
	}
	n, err := strconv.Atoi(key[i:])
	if err != nil {
		return key, 0
	}
	return key[:i], n
}

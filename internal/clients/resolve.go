package clients

import (
	"fmt"
	"strconv"
	"strings"

	"taskdemo/internal/service"
)

// Resolve finds a client by ID, by 1-based position in list, or by name
// (case-insensitive, trimmed). Names must be unambiguous.
func Resolve(list []service.Client, ref string) (service.Client, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return service.Client{}, fmt.Errorf("client required")
	}

	for _, c := range list {
		if c.ID == ref {
			return c, nil
		}
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(list) {
			return service.Client{}, fmt.Errorf("client number out of range: %d", n)
		}
		return list[n-1], nil
	}

	var matches []service.Client
	for _, c := range list {
		if strings.EqualFold(strings.TrimSpace(c.Name), ref) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return service.Client{}, fmt.Errorf("client not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return service.Client{}, fmt.Errorf("ambiguous client name: %s", ref)
	}
}

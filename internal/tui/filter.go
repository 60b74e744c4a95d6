package tui

import (
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/invoicedesk/internal/api"
)

func containsFold(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}

// filterClients keeps clients whose name or email contains q, ignoring case.
func filterClients(list []api.Client, q string) []api.Client {
	q = strings.ToLower(q)
	if q == "" {
		return list
	}
	out := make([]api.Client, 0, len(list))
	for _, c := range list {
		if containsFold(c.Name, q) || containsFold(c.Email, q) {
			out = append(out, c)
		}
	}
	return out
}

// clientsByName is the composer's client search: name only.
func clientsByName(list []api.Client, q string) []api.Client {
	q = strings.ToLower(q)
	if q == "" {
		return nil
	}
	var out []api.Client
	for _, c := range list {
		if containsFold(c.Name, q) {
			out = append(out, c)
		}
	}
	return out
}

// filterProducts matches on name only.
func filterProducts(list []api.Product, q string) []api.Product {
	q = strings.ToLower(q)
	if q == "" {
		return list
	}
	out := make([]api.Product, 0, len(list))
	for _, p := range list {
		if containsFold(p.Name, q) {
			out = append(out, p)
		}
	}
	return out
}

// filterInvoices matches the client name, the id digits or the date.
func filterInvoices(list []api.InvoiceSummary, q string) []api.InvoiceSummary {
	q = strings.ToLower(q)
	if q == "" {
		return list
	}
	out := make([]api.InvoiceSummary, 0, len(list))
	for _, inv := range list {
		if containsFold(inv.Client, q) ||
			strings.Contains(strconv.FormatInt(inv.ID, 10), q) ||
			strings.Contains(inv.Date, q) {
			out = append(out, inv)
		}
	}
	return out
}

// closest returns the candidate with the smallest edit distance to q.
// Candidates further away than half their own length are not suggested.
func closest(q string, candidates []string) (string, bool) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return "", false
	}
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(q, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > max(len([]rune(best))/2, 2) {
		return "", false
	}
	return best, true
}

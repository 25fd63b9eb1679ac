package handlers

import "strings"

// CORSPolicy describes the cross-origin headers attached to every response
type CORSPolicy struct {
	AllowOrigin  string
	AllowMethods []string
	AllowHeaders []string
}

// ItineraryCORS is the policy for the generation endpoint
func ItineraryCORS(origin string) CORSPolicy {
	return CORSPolicy{
		AllowOrigin:  origin,
		AllowMethods: []string{"POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-User-Id"},
	}
}

// TripCORS is the policy for the trip record endpoint
func TripCORS(origin string) CORSPolicy {
	return CORSPolicy{
		AllowOrigin:  origin,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-User-Id", "Authorization"},
	}
}

// Headers returns the CORS response headers for the policy
func (p CORSPolicy) Headers() map[string]string {
	origin := p.AllowOrigin
	if origin == "" {
		origin = "*"
	}
	headers := map[string]string{
		"Access-Control-Allow-Origin":  origin,
		"Access-Control-Allow-Methods": strings.Join(p.AllowMethods, ", "),
		"Access-Control-Allow-Headers": strings.Join(p.AllowHeaders, ", "),
	}
	if origin != "*" {
		headers["Vary"] = "Origin"
	}
	return headers
}

// Allow returns the value of the Allow header for 405 responses
func (p CORSPolicy) Allow() string {
	return strings.Join(p.AllowMethods, ", ")
}

// Allows reports whether method is one of the policy's methods.
// Methods are case-sensitive.
func (p CORSPolicy) Allows(method string) bool {
	for _, m := range p.AllowMethods {
		if m == method {
			return true
		}
	}
	return false
}

package assembly

import "fmt"

// IntegrationDomainError reports a term bound to a triangulation it cannot
// be integrated over: a boundary term handed cells, a domain term handed
// facets, or a triangulation built from a different mesh than the form's
// spaces.
type IntegrationDomainError struct {
	Term   string
	Reason string
}

func (e *IntegrationDomainError) Error() string {
	return fmt.Sprintf("%s term: %s", e.Term, e.Reason)
}

package types

type ActorType string

const (
	ActorTypeAdmin  ActorType = "admin"
	ActorTypeSystem ActorType = "system"
)

// Actor identifies who triggered a mutation, for audit attribution.
type Actor struct {
	ID   string    `json:"id"`
	Type ActorType `json:"type"`
}

// SystemActor is used by scheduled jobs (sweep, aggregation).
func SystemActor(job string) Actor {
	return Actor{ID: job, Type: ActorTypeSystem}
}

package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventMoviesLoaded    EventType = "MoviesLoaded"
	EventMovieLoaded     EventType = "MovieLoaded"
	EventSearchReset     EventType = "SearchReset"
	EventLoadFailed      EventType = "LoadFailed"
	EventCatalogImported EventType = "CatalogImported"
	EventScopeTornDown   EventType = "ScopeTornDown"
	EventConfigLoaded    EventType = "ConfigLoaded"
	EventConfigSaved     EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// MoviesLoadedEvent is emitted when a movie list finished loading
type MoviesLoadedEvent struct {
	Filter Filter
	Query  string // empty for a plain category load
	Count  int
}

func (e MoviesLoadedEvent) Type() EventType { return EventMoviesLoaded }

// MovieLoadedEvent is emitted when a movie detail finished loading
type MovieLoadedEvent struct {
	MovieID int
}

func (e MovieLoadedEvent) Type() EventType { return EventMovieLoaded }

// SearchResetEvent is emitted when the search field was cleared
type SearchResetEvent struct {
	Filter Filter
}

func (e SearchResetEvent) Type() EventType { return EventSearchReset }

// LoadFailedEvent is emitted when a catalog operation fails
type LoadFailedEvent struct {
	Op  string // "load_movies", "search", "load_movie"
	Err error
}

func (e LoadFailedEvent) Type() EventType { return EventLoadFailed }

// CatalogImportedEvent is emitted after a seed file was imported
type CatalogImportedEvent struct {
	Source string
	Count  int
}

func (e CatalogImportedEvent) Type() EventType { return EventCatalogImported }

// ScopeTornDownEvent is emitted when a screen's task scope is torn down
type ScopeTornDownEvent struct {
	ScopeID   string
	Name      string
	Cancelled int // scheduled tasks cancelled by the teardown
}

func (e ScopeTornDownEvent) Type() EventType { return EventScopeTornDown }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

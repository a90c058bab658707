package searchdb

type DB interface {
	Index(documents []Document) error
	Search(query Query) (*Response, error)
	GetDocCount() (uint64, error)
	Close() error
}

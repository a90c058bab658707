package kvdb

const (
	DocumentsBucket  = "documents"
	CategoriesBucket = "categories"
	CountersBucket   = "counters"
)

var buckets = []string{DocumentsBucket, CategoriesBucket, CountersBucket}

type DB interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	GetAll(bucket string) (map[string]string, error)
	Count(bucket string) (int, error)
	Increment(bucket string, key string) (uint64, error)
	GetCounter(bucket string, key string) (uint64, error)
	Close() error
}

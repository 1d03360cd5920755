package tabu

import (
	"github.com/golang-collections/collections/queue"

	"jobShop/internal/jobshop"
)

// memory - табу-список критических путей.
// Очередь хранит порядок вставки для вытеснения самого старого пути,
// map - число вхождений каждого пути для проверки за O(1).
type memory struct {
	capacity int
	order    *queue.Queue
	count    map[string]int
}

func newMemory(capacity int) *memory {
	return &memory{
		capacity: capacity,
		order:    queue.New(),
		count:    make(map[string]int, capacity),
	}
}

// Contains проверяет, запрещён ли путь.
func (t *memory) Contains(path []jobshop.Operation) bool {
	return t.count[jobshop.PathKey(path)] > 0
}

// Add добавляет путь, вытесняя самый старый при заполнении.
func (t *memory) Add(path []jobshop.Operation) {
	if t.order.Len() == t.capacity {
		oldest := t.order.Dequeue().(string)
		if t.count[oldest]--; t.count[oldest] == 0 {
			delete(t.count, oldest)
		}
	}
	key := jobshop.PathKey(path)
	t.order.Enqueue(key)
	t.count[key]++
}

func (t *memory) Len() int {
	return t.order.Len()
}

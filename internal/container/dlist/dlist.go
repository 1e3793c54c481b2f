// Package dlist implements a generic doubly linked circular list whose
// lookups are driven by an equality function fixed at construction.
//
// Nodes can be detached with PopFront and relinked into another list with
// PushBackNode, which moves an element between lists without allocating.
package dlist

// Node is an element of a List.
type Node[T any] struct {
	Value T

	prev, next *Node[T]
	list       *List[T]
}

// Next returns the following node, or nil at the tail.
func (n *Node[T]) Next() *Node[T] {
	if n.list == nil || n.next == n.list.head {
		return nil
	}
	return n.next
}

// List is a doubly linked circular list. The zero value is an empty list
// that compares nothing; use New to bind an equality function.
type List[T any] struct {
	head  *Node[T]
	size  int
	equal func(a, b T) bool
}

// New returns an empty list that uses equal for Find, Index and Contains.
func New[T any](equal func(a, b T) bool) *List[T] {
	return &List[T]{equal: equal}
}

// Len returns the number of nodes.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return l.size
}

// IsEmpty reports whether the list has no nodes.
func (l *List[T]) IsEmpty() bool {
	return l.Len() == 0
}

// Front returns the head node, or nil for an empty list.
func (l *List[T]) Front() *Node[T] {
	if l == nil {
		return nil
	}
	return l.head
}

// PushFront inserts v at the head.
func (l *List[T]) PushFront(v T) *Node[T] {
	n := &Node[T]{Value: v}
	l.link(n)
	l.head = n
	return n
}

// PushBack inserts v at the tail.
func (l *List[T]) PushBack(v T) *Node[T] {
	n := &Node[T]{Value: v}
	l.link(n)
	return n
}

// PushBackNode relinks a detached node at the tail. It reports false when
// n still belongs to a list.
func (l *List[T]) PushBackNode(n *Node[T]) bool {
	if n == nil || n.list != nil {
		return false
	}
	l.link(n)
	return true
}

// PopFront detaches and returns the head node.
func (l *List[T]) PopFront() (*Node[T], bool) {
	if l.Len() == 0 {
		return nil, false
	}
	n := l.head
	l.unlink(n)
	return n, true
}

// At returns the value at index i, walking from whichever end is closer.
func (l *List[T]) At(i int) (T, bool) {
	n := l.nodeAt(i)
	if n == nil {
		var zero T
		return zero, false
	}
	return n.Value, true
}

// RemoveAt unlinks the node at index i and returns its value.
func (l *List[T]) RemoveAt(i int) (T, bool) {
	n := l.nodeAt(i)
	if n == nil {
		var zero T
		return zero, false
	}
	l.unlink(n)
	return n.Value, true
}

// Remove unlinks n from l and returns its value. n must belong to l.
func (l *List[T]) Remove(n *Node[T]) T {
	if n.list == l {
		l.unlink(n)
	}
	return n.Value
}

// Find returns the first node equal to v, or nil.
func (l *List[T]) Find(v T) *Node[T] {
	if l.Len() == 0 || l.equal == nil {
		return nil
	}
	for n := l.head; n != nil; n = n.Next() {
		if l.equal(n.Value, v) {
			return n
		}
	}
	return nil
}

// Index returns the position of the first element equal to v, or -1.
func (l *List[T]) Index(v T) int {
	if l.Len() == 0 || l.equal == nil {
		return -1
	}
	i := 0
	for n := l.head; n != nil; n = n.Next() {
		if l.equal(n.Value, v) {
			return i
		}
		i++
	}
	return -1
}

// Contains reports whether an element equal to v is present.
func (l *List[T]) Contains(v T) bool {
	return l.Find(v) != nil
}

// Destroy unlinks every node, handing each value to release when non-nil.
func (l *List[T]) Destroy(release func(T)) {
	if l == nil {
		return
	}
	for l.size > 0 {
		n, _ := l.PopFront()
		if release != nil {
			release(n.Value)
		}
	}
}

func (l *List[T]) link(n *Node[T]) {
	n.list = l
	if l.head == nil {
		n.prev, n.next = n, n
		l.head = n
	} else {
		tail := l.head.prev
		n.prev, n.next = tail, l.head
		tail.next = n
		l.head.prev = n
	}
	l.size++
}

func (l *List[T]) unlink(n *Node[T]) {
	if l.size == 1 {
		l.head = nil
	} else {
		n.prev.next = n.next
		n.next.prev = n.prev
		if l.head == n {
			l.head = n.next
		}
	}
	n.prev, n.next, n.list = nil, nil, nil
	l.size--
}

func (l *List[T]) nodeAt(i int) *Node[T] {
	if i < 0 || i >= l.Len() {
		return nil
	}
	if i <= l.size/2 {
		n := l.head
		for ; i > 0; i-- {
			n = n.next
		}
		return n
	}
	n := l.head.prev
	for j := l.size - 1; j > i; j-- {
		n = n.prev
	}
	return n
}

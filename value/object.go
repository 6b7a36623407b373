package value

// ObjectKind tags a heap object's variant. String is the only one today;
// the tag exists so future object kinds don't need a representation change.
type ObjectKind uint8

const (
	ObjectString ObjectKind = iota
)

// StringObject is a heap-allocated, immutable string body. Concatenation
// never mutates an existing object; it allocates a fresh one.
type StringObject struct {
	Kind   ObjectKind
	Hash   uint32
	Length int
	Body   string
}

// hashFNV1a computes the 32-bit FNV-1a hash of s: initial 0x811C9DC5, then
// for each byte h = (h XOR b) * 0x01000193 mod 2^32. Reserved for future
// string interning; not currently used for lookup.
func hashFNV1a(s string) uint32 {
	const offsetBasis uint32 = 0x811C9DC5
	const prime uint32 = 0x01000193
	h := offsetBasis
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}

// NewStringObject builds a StringObject for body, computing its hash.
func NewStringObject(body string) *StringObject {
	return &StringObject{
		Kind:   ObjectString,
		Hash:   hashFNV1a(body),
		Length: len(body),
		Body:   body,
	}
}

// ObjectList owns every heap object reachable from a program: string
// literals threaded in when the VM runs a chunk and concatenation results threaded
// in during execution. A slab indexed by Handle rather than an intrusive
// linked list: no pointer chasing, O(n) teardown.
type ObjectList struct {
	objects []*StringObject
}

// NewObjectList returns an empty ObjectList.
func NewObjectList() *ObjectList {
	return &ObjectList{}
}

// Intern allocates a fresh StringObject for body, appends it, and returns
// its Handle. Despite the name, no deduplication occurs; the hash is
// computed but never consulted for lookup yet.
func (l *ObjectList) Intern(body string) Handle {
	l.objects = append(l.objects, NewStringObject(body))
	return Handle(len(l.objects) - 1)
}

// Get returns the StringObject for h.
func (l *ObjectList) Get(h Handle) *StringObject {
	return l.objects[h]
}

// Concat allocates a fresh string object holding a.Body+b.Body, links it
// onto the list, and returns its handle. Neither operand is freed or
// otherwise modified; both remain reachable on the list.
func (l *ObjectList) Concat(a, b Handle) Handle {
	body := l.Get(a).Body + l.Get(b).Body
	return l.Intern(body)
}

// Len reports how many objects the list currently owns.
func (l *ObjectList) Len() int {
	return len(l.objects)
}

// Adopt appends other's objects onto l and returns the Handle offset that
// must be added to every Handle that was valid against other, so it
// becomes valid against l. Used by the VM each time it runs a chunk
// (including each REPL line) to transfer ownership of that Chunk's
// compile-time string objects into the VM's object list.
func (l *ObjectList) Adopt(other *ObjectList) Handle {
	offset := Handle(len(l.objects))
	l.objects = append(l.objects, other.objects...)
	return offset
}

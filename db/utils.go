package db

var (
	NamespaceClaimed     = []byte("clm")
	NamespaceEligibility = []byte("elg")
	NamespaceMeta        = []byte("meta")
	EmptyKey             = []byte{}
	Separator            = []byte("|")
)

var (
	// KeyMerkleRoot stores the root the eligibility index was built for.
	KeyMerkleRoot = []byte("root")
)

func PrependNamespace(namespace []byte, key []byte) []byte {
	if namespace != nil {
		prefixed := make([]byte, 0, len(namespace)+len(Separator)+len(key))
		prefixed = append(prefixed, namespace...)
		prefixed = append(prefixed, Separator...)
		return append(prefixed, key...)
	}
	return key
}

// NamespaceRange returns the [start, end) key range covering every key of a namespace.
func NamespaceRange(namespace []byte) ([]byte, []byte) {
	start := PrependNamespace(namespace, EmptyKey)
	end := make([]byte, len(start))
	copy(end, start)
	end[len(end)-1]++
	return start, end
}

// StripNamespace removes the namespace prefix added by PrependNamespace.
func StripNamespace(namespace []byte, key []byte) []byte {
	prefixLen := len(namespace) + len(Separator)
	if len(key) < prefixLen {
		return key
	}
	return key[prefixLen:]
}

func ConvNilToBytes(byteArray []byte) []byte {
	if byteArray == nil {
		return []byte{}
	}
	return byteArray
}

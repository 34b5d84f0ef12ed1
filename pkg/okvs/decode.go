package okvs

// Decode returns the value storage holds for key: the sum of the distinct
// bucket cells of key and of the dense cells its dense vector selects.
// storage must come from Encode on a table with the same parameters and
// hash keys; a key that was not encoded decodes to an unrelated element.
// Decode panics if storage does not have M() elements.
func (o *OKVS[E]) Decode(storage []E, key []byte) E {
	if err := o.CheckStorage(storage); err != nil {
		panic(err)
	}

	v := o.f.Zero()
	for _, b := range distinct(o.hasher.BucketIndices(key)) {
		v = o.f.Add(v, storage[b])
	}

	rx := o.hasher.DenseVector(key)
	for r, ok := rx.NextSet(0); ok; r, ok = rx.NextSet(r + 1) {
		v = o.f.Add(v, storage[o.lm+int(r)])
	}

	return v
}

package cms

// Mutation is one entry of a mutate transaction. Exactly one field is set.
type Mutation struct {
	CreateOrReplace map[string]any  `json:"createOrReplace,omitempty"`
	Delete          *DeleteMutation `json:"delete,omitempty"`
}

// DeleteMutation removes a document by id.
type DeleteMutation struct {
	ID string `json:"id"`
}

// CreateOrReplace builds a mutation that writes doc as a whole.
func CreateOrReplace(doc map[string]any) Mutation {
	return Mutation{CreateOrReplace: doc}
}

// Delete builds a mutation that removes the document with id.
func Delete(id string) Mutation {
	return Mutation{Delete: &DeleteMutation{ID: id}}
}

type mutateRequest struct {
	Mutations []Mutation `json:"mutations"`
}

// MutateResult is the answer of the mutate API.
type MutateResult struct {
	TransactionID string          `json:"transactionId"`
	Results       []MutatedResult `json:"results"`
}

// MutatedResult reports what happened to one document.
type MutatedResult struct {
	ID        string `json:"id"`
	Operation string `json:"operation"`
}

package domain

import "fmt"

// Kind names a resource type for logs, metrics and audit records.
type Kind string

const (
	KindBlog    Kind = "blog"
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// Ownable is implemented by every resource whose edits and deletes are gated
// by the ownership policy and committed under optimistic concurrency.
type Ownable interface {
	ResourceID() int64
	Kind() Kind
	OwningPrincipalID() string
	VersionToken() int64
}

// ResourceRef identifies a resource without loading it.
type ResourceRef struct {
	Kind Kind
	ID   int64
}

func RefOf(r Ownable) ResourceRef {
	return ResourceRef{Kind: r.Kind(), ID: r.ResourceID()}
}

func (r ResourceRef) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

// Action is informational for the policy; edit and delete share one rule.
type Action string

const (
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

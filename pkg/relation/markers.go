package relation

import "reflect"

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

// HasOne marks a one-to-one relation owned by the related model.
type HasOne[T any] struct{}

func (HasOne[T]) RelationKind() string { return "HasOne" }
func (HasOne[T]) RelatedType() string  { return typeName[T]() }

// HasMany marks a one-to-many relation.
type HasMany[T any] struct{}

func (HasMany[T]) RelationKind() string { return "HasMany" }
func (HasMany[T]) RelatedType() string  { return typeName[T]() }

// BelongsTo marks the inverse of HasOne or HasMany.
type BelongsTo[T any] struct{}

func (BelongsTo[T]) RelationKind() string { return "BelongsTo" }
func (BelongsTo[T]) RelatedType() string  { return typeName[T]() }

// BelongsToMany marks a many-to-many relation through a pivot table.
type BelongsToMany[T any] struct{}

func (BelongsToMany[T]) RelationKind() string { return "BelongsToMany" }
func (BelongsToMany[T]) RelatedType() string  { return typeName[T]() }

// HasOneThrough marks a one-to-one relation through an intermediate model.
type HasOneThrough[T any] struct{}

func (HasOneThrough[T]) RelationKind() string { return "HasOneThrough" }
func (HasOneThrough[T]) RelatedType() string  { return typeName[T]() }

// HasManyThrough marks a one-to-many relation through an intermediate model.
type HasManyThrough[T any] struct{}

func (HasManyThrough[T]) RelationKind() string { return "HasManyThrough" }
func (HasManyThrough[T]) RelatedType() string  { return typeName[T]() }

// MorphOne marks a polymorphic one-to-one relation.
type MorphOne[T any] struct{}

func (MorphOne[T]) RelationKind() string { return "MorphOne" }
func (MorphOne[T]) RelatedType() string  { return typeName[T]() }

// MorphMany marks a polymorphic one-to-many relation.
type MorphMany[T any] struct{}

func (MorphMany[T]) RelationKind() string { return "MorphMany" }
func (MorphMany[T]) RelatedType() string  { return typeName[T]() }

// MorphTo marks the inverse of a polymorphic relation.
type MorphTo[T any] struct{}

func (MorphTo[T]) RelationKind() string { return "MorphTo" }
func (MorphTo[T]) RelatedType() string  { return typeName[T]() }

// MorphToMany marks a polymorphic many-to-many relation.
type MorphToMany[T any] struct{}

func (MorphToMany[T]) RelationKind() string { return "MorphToMany" }
func (MorphToMany[T]) RelatedType() string  { return typeName[T]() }

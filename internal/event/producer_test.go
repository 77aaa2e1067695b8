package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Downstream consumers subscribe to these names; they must not drift.
func TestTopicNames(t *testing.T) {
	assert.Equal(t, "reviews.user.registered", TopicUserRegistered)
	assert.Equal(t, "reviews.product.created", TopicProductCreated)
	assert.Equal(t, "reviews.product.updated", TopicProductUpdated)
	assert.Equal(t, "reviews.product.deleted", TopicProductDeleted)
	assert.Equal(t, "reviews.review.created", TopicReviewCreated)
}

package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"storefront-backend/models"
	"storefront-backend/services"
)

func newContentFixture() (*mockContentRepo, *stubMailer, *services.ContentService) {
	repo := newMockContentRepo()
	mailer := &stubMailer{}
	logger, _ := zap.NewDevelopment()
	return repo, mailer, services.NewContentService(repo, mailer, "shop@example.com", logger)
}

func TestService_CreatePost_PublishStampsTimestamp(t *testing.T) {
	_, _, svc := newContentFixture()

	draft, svcErr := svc.CreatePost(context.Background(), &models.CreateBlogPostRequest{
		Slug: "first-post", Title: "First", Content: "Hello",
	})
	assert.Nil(t, svcErr)
	assert.Nil(t, draft.PublishedAt)

	published, svcErr := svc.CreatePost(context.Background(), &models.CreateBlogPostRequest{
		Slug: "second-post", Title: "Second", Content: "Hello", Published: true,
	})
	assert.Nil(t, svcErr)
	assert.NotNil(t, published.PublishedAt)
}

func TestService_UpdatePost_PublishingDraftSetsTimestamp(t *testing.T) {
	_, _, svc := newContentFixture()
	_, _ = svc.CreatePost(context.Background(), &models.CreateBlogPostRequest{
		Slug: "draft", Title: "Draft", Content: "WIP",
	})

	published := true
	post, svcErr := svc.UpdatePost(context.Background(), "draft", &models.UpdateBlogPostRequest{
		Published: &published,
	})
	assert.Nil(t, svcErr)
	assert.True(t, post.Published)
	assert.NotNil(t, post.PublishedAt)
}

func TestService_CreatePost_BadSlug(t *testing.T) {
	_, _, svc := newContentFixture()

	_, svcErr := svc.CreatePost(context.Background(), &models.CreateBlogPostRequest{
		Slug: "Not A Slug!", Title: "Bad", Content: "x",
	})
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestService_ListPosts_DraftsHiddenFromPublic(t *testing.T) {
	_, _, svc := newContentFixture()
	_, _ = svc.CreatePost(context.Background(), &models.CreateBlogPostRequest{
		Slug: "live", Title: "Live", Content: "x", Published: true,
	})
	_, _ = svc.CreatePost(context.Background(), &models.CreateBlogPostRequest{
		Slug: "draft", Title: "Draft", Content: "x",
	})

	public, _, svcErr := svc.ListPosts(context.Background(), false, 1, 10)
	assert.Nil(t, svcErr)
	assert.Len(t, public, 1)

	all, _, svcErr := svc.ListPosts(context.Background(), true, 1, 10)
	assert.Nil(t, svcErr)
	assert.Len(t, all, 2)
}

func TestService_Subscribe_Reactivates(t *testing.T) {
	repo, _, svc := newContentFixture()

	assert.Nil(t, svc.Subscribe(context.Background(), "ada@example.com"))
	assert.Nil(t, svc.Unsubscribe(context.Background(), "ada@example.com"))
	assert.False(t, repo.subscribers["ada@example.com"].Active)

	assert.Nil(t, svc.Subscribe(context.Background(), "ada@example.com"))
	assert.True(t, repo.subscribers["ada@example.com"].Active)
	assert.Len(t, repo.subscribers, 1) // same row, not a duplicate
}

func TestService_Unsubscribe_UnknownEmail(t *testing.T) {
	_, _, svc := newContentFixture()

	svcErr := svc.Unsubscribe(context.Background(), "ghost@example.com")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestService_SubmitContact_StripsHTMLAndNotifies(t *testing.T) {
	repo, mailer, svc := newContentFixture()

	svcErr := svc.SubmitContact(context.Background(), &models.ContactRequest{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Question",
		Message: `Hi <script>alert("x")</script>there`,
	})
	assert.Nil(t, svcErr)
	assert.Len(t, repo.messages, 1)
	assert.Equal(t, `Hi alert("x")there`, repo.messages[0].Message)
	assert.Equal(t, []string{"shop@example.com"}, mailer.sent)
}

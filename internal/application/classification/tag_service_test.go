package classification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	domain "github.com/javierhbr/test-inventory-sub000/internal/domain/classification"
	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
	"github.com/javierhbr/test-inventory-sub000/internal/testutil"
	"github.com/javierhbr/test-inventory-sub000/internal/tracing"
)

var fixedNow = time.UnixMilli(1760812800000)

type staticSource struct {
	reg registry.Registry
	err error
}

func (s staticSource) Load(context.Context) (registry.Registry, error) {
	return s.reg, s.err
}

func newService(t *testing.T, opts ...Option) (*TagService, domain.Repository) {
	t.Helper()
	repo := testutil.NewTestDB(t).ClassificationRepository()
	opts = append([]Option{
		WithVocabulary([]string{"smoke", "regression"}),
		WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	return NewTagService(repo, staticSource{reg: testutil.StandardRegistry(t)}, opts...), repo
}

func TestTagService_ShowMissingIsEmpty(t *testing.T) {
	svc, _ := newService(t)

	rec, err := svc.Show(context.Background(), domain.EntityTest, "T-404")

	require.NoError(t, err)
	require.Equal(t, "T-404", rec.EntityID)
	require.Equal(t, 0, rec.Set.Len())
}

func TestTagService_AddNormalizesAndReplaces(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	testutil.SeedSet(t, repo, domain.EntityTest, "T-1", "smoke", "customer-type:new")

	rec, outcomes, err := svc.Add(ctx, domain.EntityTest, "T-1", "retail", "Customer-Type:VIP", "Region:EMEA", "smoke")

	require.NoError(t, err)
	require.Equal(t, []string{"smoke", "customer-type:vip", "region:emea"}, rec.Set.Tags())
	require.Len(t, outcomes, 3)
	require.True(t, outcomes[0].Matched)
	require.Equal(t, []string{"customer-type:new"}, outcomes[0].Replaced)
	require.False(t, outcomes[1].Matched)
	require.False(t, outcomes[2].Added())
	require.True(t, fixedNow.Equal(rec.UpdatedAt))

	stored, err := repo.Get(ctx, domain.EntityTest, "T-1")
	require.NoError(t, err)
	require.Equal(t, rec.Set.Tags(), stored.Set.Tags())
}

func TestTagService_AddScopesRulesByLineOfBusiness(t *testing.T) {
	svc, _ := newService(t)

	rec, outcomes, err := svc.Add(context.Background(), domain.EntityTest, "T-2", "cards", "customer-type:vip")

	require.NoError(t, err)
	require.False(t, outcomes[0].Matched)
	require.Equal(t, []string{"customer-type:vip"}, rec.Set.Tags())
}

func TestTagService_AddRequiresTags(t *testing.T) {
	svc, _ := newService(t)

	_, _, err := svc.Add(context.Background(), domain.EntityTest, "T-1", "")

	require.ErrorIs(t, err, ErrNoTags)
}

func TestTagService_AddRecordsSpan(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	svc, _ := newService(t, WithTracer(tp.Tracer("test")))

	_, _, err := svc.Add(context.Background(), domain.EntityExecutionCart, "C-1", "", "account:savings")
	require.NoError(t, err)

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, tracing.SpanTagsCommit, spans[0].Name)
}

func TestTagService_Remove(t *testing.T) {
	svc, repo := newService(t)
	testutil.SeedSet(t, repo, domain.EntityTestData, "D-1", "smoke", "account:savings")

	rec, removed, err := svc.Remove(context.Background(), domain.EntityTestData, "D-1", "account:savings", "missing")

	require.NoError(t, err)
	require.Equal(t, []string{"account:savings"}, removed)
	require.Equal(t, []string{"smoke"}, rec.Set.Tags())
}

func TestTagService_RemoveNothingLeavesRecord(t *testing.T) {
	svc, repo := newService(t)
	testutil.SeedSet(t, repo, domain.EntityTest, "T-1", "smoke")

	rec, removed, err := svc.Remove(context.Background(), domain.EntityTest, "T-1", "regression")

	require.NoError(t, err)
	require.Empty(t, removed)
	require.Equal(t, []string{"smoke"}, rec.Set.Tags())
}

func TestTagService_ApplyRecipes(t *testing.T) {
	svc, repo := newService(t)
	testutil.SeedSet(t, repo, domain.EntityTest, "T-1", "customer-type:new")

	rec, err := svc.ApplyRecipes(context.Background(), domain.EntityTest, "T-1", "vip checking")

	require.NoError(t, err)
	require.Equal(t, []string{"customer-type:vip", "account:checking", "smoke"}, rec.Set.Tags())
}

func TestTagService_ApplyUnknownRecipe(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.ApplyRecipes(context.Background(), domain.EntityTest, "T-1", "p-new-saver", "nope")

	require.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestTagService_SaveSet(t *testing.T) {
	svc, repo := newService(t)

	_, err := svc.SaveSet(context.Background(), domain.EntityTest, "T-9", domain.NewSet("regression", "account:checking"))
	require.NoError(t, err)

	got, err := repo.Get(context.Background(), domain.EntityTest, "T-9")
	require.NoError(t, err)
	require.Equal(t, []string{"regression", "account:checking"}, got.Set.Tags())
}

func TestTagService_Suggest(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	keys, err := svc.Suggest(ctx, "", "retail", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"customer-type:", "account:"}, keys)

	labels, err := svc.Suggest(ctx, "smo", "", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"smoke"}, labels)

	values, err := svc.Suggest(ctx, "account:", "", []string{"account:checking"})
	require.NoError(t, err)
	require.Equal(t, []string{"account:savings"}, values)
}

func TestTagService_Validate(t *testing.T) {
	svc, _ := newService(t)

	got, err := svc.Validate(context.Background(), "", "Schedule:Month:3", "schedule:year:1", "smoke")

	require.NoError(t, err)
	require.Equal(t, []Validation{
		{Input: "Schedule:Month:3", Tag: "schedule:month:3", Matched: true, Rule: "schedule"},
		{Input: "schedule:year:1", Tag: "schedule:year:1"},
		{Input: "smoke", Tag: "smoke"},
	}, got)
}

func TestTagService_Env(t *testing.T) {
	svc, _ := newService(t)

	env, recipes, err := svc.Env(context.Background(), "retail")

	require.NoError(t, err)
	require.Len(t, env.Rules, 2)
	require.Equal(t, []string{"smoke", "regression"}, env.Vocabulary)
	require.Len(t, recipes, 2)
}

func TestTagService_RegistryErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	repo := testutil.NewTestDB(t).ClassificationRepository()
	svc := NewTagService(repo, staticSource{err: boom})

	_, _, err := svc.Add(context.Background(), domain.EntityTest, "T-1", "", "smoke")

	require.ErrorIs(t, err, boom)
}

func TestTagService_FindByTag(t *testing.T) {
	svc, repo := newService(t)
	testutil.SeedSet(t, repo, domain.EntityTest, "T-1", "smoke")
	testutil.SeedSet(t, repo, domain.EntityExecutionCart, "C-1", "smoke", "regression")
	testutil.SeedSet(t, repo, domain.EntityTest, "T-2", "regression")

	recs, err := svc.FindByTag(context.Background(), "smoke")

	require.NoError(t, err)
	require.Len(t, recs, 2)
}

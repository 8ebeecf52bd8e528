package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-portal/internal/models"
)

var baseTime = time.Date(2025, 7, 14, 9, 30, 0, 0, time.UTC)

func sampleApplication(id, email string, submitted time.Time) *models.Application {
	return &models.Application{
		ApplicationID: id,
		Name:          "Asha Verma",
		Email:         email,
		Mobile:        "9876543210",
		RegNumber:     "23BCE1234",
		Positions: []models.PositionEntry{
			{
				PositionName: "Technical Head",
				Preference:   1,
				Motivation:   strings.Repeat("word ", 200),
				DomainAnswers: models.StructuredAnswers([]models.QuestionAnswer{
					{Question: "Which stack?", Answer: strings.Repeat("go ", 50)},
				}),
			},
			{
				PositionName:  "Design Head",
				Preference:    2,
				Motivation:    strings.Repeat("design ", 200),
				DomainAnswers: models.FlattenedAnswers(strings.Repeat("figma ", 50)),
			},
		},
		ResumeLink:    "https://drive.example.com/resume",
		GithubLink:    "https://github.com/asha",
		AgreedToTerms: true,
		Status:        models.StatusPending,
		SubmittedAt:   submitted,
		LastUpdated:   submitted,
	}
}

// runStoreContract checks the behavior every ApplicationStore must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) ApplicationStore) {
	t.Run("insert and find by email", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.FindByEmail(ctx, "asha.verma2023@vitstudent.ac.in")
		assert.True(t, errors.Is(err, ErrApplicationNotFound))

		app := sampleApplication("SC250001", "asha.verma2023@vitstudent.ac.in", baseTime)
		require.NoError(t, store.Insert(ctx, app))

		found, err := store.FindByEmail(ctx, "asha.verma2023@vitstudent.ac.in")
		require.NoError(t, err)
		assert.Equal(t, "SC250001", found.ApplicationID)
		assert.Equal(t, models.StatusPending, found.Status)
		assert.True(t, found.AgreedToTerms)
		assert.True(t, found.SubmittedAt.Equal(baseTime))
		require.Len(t, found.Positions, 2)
		assert.Equal(t, models.DomainAnswersStructured, found.Positions[0].DomainAnswers.Kind)
		assert.Equal(t, 50, found.Positions[0].DomainAnswers.WordCount())
		assert.Equal(t, models.DomainAnswersFlattened, found.Positions[1].DomainAnswers.Kind)
		assert.Equal(t, 50, found.Positions[1].DomainAnswers.WordCount())
	})

	t.Run("duplicate id", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Insert(ctx, sampleApplication("SC250002", "a@vit.ac.in", baseTime)))
		err := store.Insert(ctx, sampleApplication("SC250002", "b@vit.ac.in", baseTime))
		assert.True(t, errors.Is(err, ErrApplicationIDTaken))
	})

	t.Run("list newest first", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		apps, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, apps)
		assert.Empty(t, apps)

		for i := 0; i < 3; i++ {
			id := fmt.Sprintf("SC25000%d", i+3)
			email := fmt.Sprintf("user%d@vitstudent.ac.in", i)
			require.NoError(t, store.Insert(ctx, sampleApplication(id, email, baseTime.Add(time.Duration(i)*time.Hour))))
		}

		apps, err = store.List(ctx)
		require.NoError(t, err)
		require.Len(t, apps, 3)
		assert.Equal(t, "SC250005", apps[0].ApplicationID)
		assert.Equal(t, "SC250004", apps[1].ApplicationID)
		assert.Equal(t, "SC250003", apps[2].ApplicationID)
	})

	t.Run("update status", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Insert(ctx, sampleApplication("SC250006", "c@vit.ac.in", baseTime)))

		later := baseTime.Add(48 * time.Hour)
		updated, err := store.UpdateStatus(ctx, "SC250006", models.StatusShortlisted, later)
		require.NoError(t, err)
		assert.Equal(t, models.StatusShortlisted, updated.Status)
		assert.True(t, updated.LastUpdated.Equal(later))
		assert.True(t, updated.SubmittedAt.Equal(baseTime))

		found, err := store.FindByEmail(ctx, "c@vit.ac.in")
		require.NoError(t, err)
		assert.Equal(t, models.StatusShortlisted, found.Status)

		_, err = store.UpdateStatus(ctx, "SC259999", models.StatusSelected, later)
		assert.True(t, errors.Is(err, ErrApplicationNotFound))
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) ApplicationStore {
		return NewMemoryStore()
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	app := sampleApplication("SC250010", "copy@vit.ac.in", baseTime)
	require.NoError(t, store.Insert(ctx, app))
	app.Positions[0].DomainAnswers.Pairs[0].Answer = "mutated"

	found, err := store.FindByEmail(ctx, "copy@vit.ac.in")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", found.Positions[0].DomainAnswers.Pairs[0].Answer)

	found.Positions[0].PositionName = "changed"
	again, err := store.FindByEmail(ctx, "copy@vit.ac.in")
	require.NoError(t, err)
	assert.Equal(t, "Technical Head", again.Positions[0].PositionName)
	assert.Equal(t, 1, store.Len())
}

func TestElasticsearchStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) ApplicationStore {
		store := NewElasticsearchStore(newFakeES(t), "applications")
		require.NoError(t, store.EnsureIndex(context.Background()))
		return store
	})
}

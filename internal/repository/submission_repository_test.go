package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hei-portal-api/internal/models"
)

func TestSubmissionRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "institution_id", "campus", "form_type", "object_id", "file_name", "created_at"}).
		AddRow("sub-1", "hei-1", "Main", "form1", "obj-1", "Form 1 - 2026-03-15.xlsx", time.Now())
	mock.ExpectQuery("SELECT (.+) FROM submissions WHERE 1=1 AND institution_id = \\$1 AND form_type = \\$2 ORDER BY created_at DESC").
		WithArgs("hei-1", "form1").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.SubmissionFilter{InstitutionID: "hei-1", FormType: string(models.FormType1)})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Form 1 - 2026-03-15.xlsx", list[0].FileName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectExec("INSERT INTO submissions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	submission := &models.Submission{
		InstitutionID: "hei-1",
		Campus:        "Main",
		FormType:      models.FormType2,
		ObjectID:      "obj-9",
		FileName:      "Form 2 - 2026-03-15.xlsx",
	}
	require.NoError(t, repo.Create(context.Background(), submission))
	assert.NotEmpty(t, submission.ID)
	assert.False(t, submission.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM submissions WHERE id = $1")).
		WithArgs("sub-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Delete(context.Background(), "sub-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

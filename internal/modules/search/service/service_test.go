package search

import (
	"context"
	"testing"

	"anoa.com/kulupportal/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestProjectIndex_Disabled(t *testing.T) {
	ctx := context.Background()
	idx := NewProjectIndex(ctx, nil)
	require.False(t, idx.Enabled())

	require.NoError(t, idx.IndexProject(ctx, &entity.Project{ID: uuid.New(), Name: "Robot"}))
	require.NoError(t, idx.DeleteProject(ctx, uuid.New()))

	ids, err := idx.SearchProjects(ctx, "robot", 10)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestProjectIndex_Clean(t *testing.T) {
	idx := NewProjectIndex(context.Background(), nil).(*projectIndex)

	require.Equal(t, "Birinci satır ikinci & üçüncü", idx.clean("<p>Birinci satır</p><br>ikinci &amp; <b>üçüncü</b>"))
	require.Equal(t, "alert", idx.clean("<script>x</script>alert"))
}

package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-viewer/internal/models"
)

func TestParseViewType(t *testing.T) {
	vt, err := ParseViewType(" Faculty ")
	require.NoError(t, err)
	assert.Equal(t, models.ViewTypeFaculty, vt)

	vt, err = ParseViewType("classes")
	require.NoError(t, err)
	assert.Equal(t, models.ViewTypeClasses, vt)

	_, err = ParseViewType("rooms")
	assert.Error(t, err)
}

func TestSwitchViewSelectsFirstEntity(t *testing.T) {
	tt := exampleTimetable()

	s := NewState(models.ViewTypeClasses).SelectItem("c1")
	s = s.SwitchView(models.ViewTypeFaculty, tt)
	assert.Equal(t, State{ViewType: models.ViewTypeFaculty, SelectedID: "f1"}, s)

	s = s.SelectItem("f2").SwitchView(models.ViewTypeClasses, tt)
	assert.Equal(t, State{ViewType: models.ViewTypeClasses, SelectedID: "c1"}, s)
}

func TestSwitchViewToEmptyCollectionClearsSelection(t *testing.T) {
	tt := exampleTimetable()
	tt.Classes = nil

	s := NewState(models.ViewTypeFaculty).SelectItem("f1").SwitchView(models.ViewTypeClasses, tt)

	assert.Equal(t, models.ViewTypeClasses, s.ViewType)
	assert.Empty(t, s.SelectedID)
	_, ok := Resolve(s, tt)
	assert.False(t, ok)
}

func TestSwitchViewWithoutTimetable(t *testing.T) {
	s := NewState("").SwitchView(models.ViewTypeFaculty, nil)
	assert.Equal(t, State{ViewType: models.ViewTypeFaculty}, s)
}

func TestSelectItemDoesNotValidate(t *testing.T) {
	s := NewState(models.ViewTypeClasses).SelectItem("missing")
	assert.Equal(t, "missing", s.SelectedID)
}

func TestReconcileFillsEmptySelection(t *testing.T) {
	tt := exampleTimetable()

	s, changed := Reconcile(NewState(models.ViewTypeClasses), tt)
	assert.True(t, changed)
	assert.Equal(t, "c1", s.SelectedID)

	s, changed = Reconcile(NewState(models.ViewTypeFaculty), tt)
	assert.True(t, changed)
	assert.Equal(t, "f1", s.SelectedID)
}

func TestReconcileIsIdempotent(t *testing.T) {
	tt := exampleTimetable()

	first, changed := Reconcile(NewState(models.ViewTypeClasses), tt)
	require.True(t, changed)

	second, changed := Reconcile(first, tt)
	assert.False(t, changed)
	assert.Equal(t, first, second)
}

func TestReconcileKeepsExplicitSelection(t *testing.T) {
	s, changed := Reconcile(NewState(models.ViewTypeClasses).SelectItem("unknown"), exampleTimetable())
	assert.False(t, changed)
	assert.Equal(t, "unknown", s.SelectedID)
}

func TestReconcileEmptyCollection(t *testing.T) {
	tt := exampleTimetable()
	tt.Faculty = []models.Faculty{}

	s, changed := Reconcile(NewState(models.ViewTypeFaculty), tt)
	assert.False(t, changed)
	assert.Empty(t, s.SelectedID)

	s, changed = Reconcile(NewState(models.ViewTypeFaculty), nil)
	assert.False(t, changed)
	assert.Empty(t, s.SelectedID)
}

func TestViewTypeLabel(t *testing.T) {
	assert.Equal(t, "Class Timetables", ViewTypeLabel(models.ViewTypeClasses))
	assert.Equal(t, "Faculty Timetables", ViewTypeLabel(models.ViewTypeFaculty))
}

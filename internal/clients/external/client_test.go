package external

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// mockDND5eClient is a mock implementation of the dnd5e.Interface for testing
type mockDND5eClient struct {
	mock.Mock
}

func (m *mockDND5eClient) ListRaces() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetRace(key string) (*entities.Race, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Race), args.Error(1)
}

func (m *mockDND5eClient) ListEquipment() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetEquipment(key string) (dnd5e.EquipmentInterface, error) {
	args := m.Called(key)
	return args.Get(0).(dnd5e.EquipmentInterface), args.Error(1)
}

func (m *mockDND5eClient) GetEquipmentCategory(key string) (*entities.EquipmentCategory, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.EquipmentCategory), args.Error(1)
}

func (m *mockDND5eClient) ListClasses() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetClass(key string) (*entities.Class, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Class), args.Error(1)
}

func (m *mockDND5eClient) ListSpells(input *dnd5e.ListSpellsInput) ([]*entities.ReferenceItem, error) {
	args := m.Called(input)
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetSpell(key string) (*entities.Spell, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Spell), args.Error(1)
}

func (m *mockDND5eClient) ListFeatures() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetFeature(key string) (*entities.Feature, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Feature), args.Error(1)
}

func (m *mockDND5eClient) ListSkills() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetSkill(key string) (*entities.Skill, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Skill), args.Error(1)
}

func (m *mockDND5eClient) ListMonsters() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) ListMonstersWithFilter(input *dnd5e.ListMonstersInput) ([]*entities.ReferenceItem, error) {
	args := m.Called(input)
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetMonster(key string) (*entities.Monster, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Monster), args.Error(1)
}

func (m *mockDND5eClient) GetClassLevel(key string, level int) (*entities.Level, error) {
	args := m.Called(key, level)
	return args.Get(0).(*entities.Level), args.Error(1)
}

func (m *mockDND5eClient) GetProficiency(key string) (*entities.Proficiency, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Proficiency), args.Error(1)
}

func (m *mockDND5eClient) ListDamageTypes() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetDamageType(key string) (*entities.DamageType, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.DamageType), args.Error(1)
}

func (m *mockDND5eClient) ListBackgrounds() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetBackground(key string) (*entities.Background, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Background), args.Error(1)
}

type ClientTestSuite struct {
	suite.Suite
	api    *mockDND5eClient
	client Client
	ctx    context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.api = new(mockDND5eClient)
	s.ctx = context.Background()

	var err error
	s.client, err = New(&Config{API: s.api, Logger: zaptest.NewLogger(s.T())})
	s.Require().NoError(err)
}

func (s *ClientTestSuite) TearDownTest() {
	s.api.AssertExpectations(s.T())
}

func (s *ClientTestSuite) TestNewRequiresConfig() {
	_, err := New(nil)
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = New(&Config{CacheTTL: -1})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *ClientTestSuite) TestListClassSpells() {
	level := 1
	s.api.On("ListSpells", &dnd5e.ListSpellsInput{Level: &level, Class: "wizard"}).Return([]*entities.ReferenceItem{
		{Key: "magic-missile", Name: "Magic Missile"},
		{Key: "shield", Name: "Shield"},
	}, nil)

	refs, err := s.client.ListClassSpells(s.ctx, &ListSpellsInput{ClassID: "CLASS_WIZARD", Level: 1})
	s.Require().NoError(err)
	s.Require().Len(refs, 2)
	s.Assert().Equal("magic_missile", refs[0].ID)
	s.Assert().Equal("Magic Missile", refs[0].Name)
	s.Assert().Equal(1, refs[1].Level)
}

func (s *ClientTestSuite) TestListClassSpellsForNonCaster() {
	refs, err := s.client.ListClassSpells(s.ctx, &ListSpellsInput{ClassID: "fighter", Level: 1})
	s.Require().NoError(err)
	s.Assert().Empty(refs)
}

func (s *ClientTestSuite) TestListClassSpellsErrors() {
	_, err := s.client.ListClassSpells(s.ctx, nil)
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.client.ListClassSpells(s.ctx, &ListSpellsInput{ClassID: "wizard", Level: 10})
	s.Assert().True(errors.IsInvalidArgument(err))

	s.api.On("ListSpells", mock.Anything).Return([]*entities.ReferenceItem(nil), stderrors.New("connection refused"))
	_, err = s.client.ListClassSpells(s.ctx, &ListSpellsInput{ClassID: "bard", Level: 0})
	s.Require().Error(err)
	s.Assert().Equal(errors.CodeUnavailable, errors.GetCode(err))
}

func (s *ClientTestSuite) TestGetSpellData() {
	s.api.On("GetSpell", "cure-wounds").Return(&entities.Spell{
		Key:        "cure-wounds",
		Name:       "Cure Wounds",
		SpellLevel: 1,
	}, nil)

	spell, err := s.client.GetSpellData(s.ctx, "cure_wounds")
	s.Require().NoError(err)
	s.Assert().Equal("cure_wounds", spell.ID)
	s.Assert().Equal("Cure Wounds", spell.Name)
	s.Assert().Equal(1, spell.Level)
}

func (s *ClientTestSuite) TestGetSpellDataErrors() {
	_, err := s.client.GetSpellData(s.ctx, " ")
	s.Assert().True(errors.IsInvalidArgument(err))

	s.api.On("GetSpell", "wish").Return((*entities.Spell)(nil), stderrors.New("timeout"))
	_, err = s.client.GetSpellData(s.ctx, "wish")
	s.Assert().Equal(errors.CodeUnavailable, errors.GetCode(err))

	s.api.On("GetSpell", "nothing").Return((*entities.Spell)(nil), nil)
	_, err = s.client.GetSpellData(s.ctx, "nothing")
	s.Assert().True(errors.IsNotFound(err))
}

func (s *ClientTestSuite) TestSpellIDFormat() {
	s.Assert().Equal("magic-missile", toAPIFormat("Magic_Missile"))
	s.Assert().Equal("magic_missile", fromAPIFormat("magic-missile"))
}

package mocks

import (
	context "context"
	event "github.com/jsamuelsen11/scorebook/internal/domain/event"
	ports "github.com/jsamuelsen11/scorebook/internal/ports"

	mock "github.com/stretchr/testify/mock"
)

// MockScorekeeper is an autogenerated mock type for the Scorekeeper type
type MockScorekeeper struct {
	mock.Mock
}

type MockScorekeeper_Expecter struct {
	mock *mock.Mock
}

func (_m *MockScorekeeper) EXPECT() *MockScorekeeper_Expecter {
	return &MockScorekeeper_Expecter{mock: &_m.Mock}
}

// EndHalfInning provides a mock function with given fields: ctx, cmd
func (_m *MockScorekeeper) EndHalfInning(ctx context.Context, cmd ports.EndHalfInningCommand) ports.HalfInningResult {
	ret := _m.Called(ctx, cmd)

	if len(ret) == 0 {
		panic("no return value specified for EndHalfInning")
	}

	var r0 ports.HalfInningResult
	if rf, ok := ret.Get(0).(func(context.Context, ports.EndHalfInningCommand) ports.HalfInningResult); ok {
		r0 = rf(ctx, cmd)
	} else {
		r0 = ret.Get(0).(ports.HalfInningResult)
	}

	return r0
}

// MockScorekeeper_EndHalfInning_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'EndHalfInning'
type MockScorekeeper_EndHalfInning_Call struct {
	*mock.Call
}

// EndHalfInning is a helper method to define mock.On call
//   - ctx context.Context
//   - cmd ports.EndHalfInningCommand
func (_e *MockScorekeeper_Expecter) EndHalfInning(ctx interface{}, cmd interface{}) *MockScorekeeper_EndHalfInning_Call {
	return &MockScorekeeper_EndHalfInning_Call{Call: _e.mock.On("EndHalfInning", ctx, cmd)}
}

func (_c *MockScorekeeper_EndHalfInning_Call) Run(run func(ctx context.Context, cmd ports.EndHalfInningCommand)) *MockScorekeeper_EndHalfInning_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(ports.EndHalfInningCommand))
	})
	return _c
}

func (_c *MockScorekeeper_EndHalfInning_Call) Return(_a0 ports.HalfInningResult) *MockScorekeeper_EndHalfInning_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockScorekeeper_EndHalfInning_Call) RunAndReturn(run func(context.Context, ports.EndHalfInningCommand) ports.HalfInningResult) *MockScorekeeper_EndHalfInning_Call {
	_c.Call.Return(run)
	return _c
}

// EndMatch provides a mock function with given fields: ctx, cmd
func (_m *MockScorekeeper) EndMatch(ctx context.Context, cmd ports.EndMatchCommand) ports.EndMatchResult {
	ret := _m.Called(ctx, cmd)

	if len(ret) == 0 {
		panic("no return value specified for EndMatch")
	}

	var r0 ports.EndMatchResult
	if rf, ok := ret.Get(0).(func(context.Context, ports.EndMatchCommand) ports.EndMatchResult); ok {
		r0 = rf(ctx, cmd)
	} else {
		r0 = ret.Get(0).(ports.EndMatchResult)
	}

	return r0
}

// MockScorekeeper_EndMatch_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'EndMatch'
type MockScorekeeper_EndMatch_Call struct {
	*mock.Call
}

// EndMatch is a helper method to define mock.On call
//   - ctx context.Context
//   - cmd ports.EndMatchCommand
func (_e *MockScorekeeper_Expecter) EndMatch(ctx interface{}, cmd interface{}) *MockScorekeeper_EndMatch_Call {
	return &MockScorekeeper_EndMatch_Call{Call: _e.mock.On("EndMatch", ctx, cmd)}
}

func (_c *MockScorekeeper_EndMatch_Call) Run(run func(ctx context.Context, cmd ports.EndMatchCommand)) *MockScorekeeper_EndMatch_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(ports.EndMatchCommand))
	})
	return _c
}

func (_c *MockScorekeeper_EndMatch_Call) Return(_a0 ports.EndMatchResult) *MockScorekeeper_EndMatch_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockScorekeeper_EndMatch_Call) RunAndReturn(run func(context.Context, ports.EndMatchCommand) ports.EndMatchResult) *MockScorekeeper_EndMatch_Call {
	_c.Call.Return(run)
	return _c
}

// MatchEvents provides a mock function with given fields: ctx, matchID
func (_m *MockScorekeeper) MatchEvents(ctx context.Context, matchID string) ([]event.Event, error) {
	ret := _m.Called(ctx, matchID)

	if len(ret) == 0 {
		panic("no return value specified for MatchEvents")
	}

	var r0 []event.Event
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]event.Event, error)); ok {
		return rf(ctx, matchID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) []event.Event); ok {
		r0 = rf(ctx, matchID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]event.Event)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, matchID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockScorekeeper_MatchEvents_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'MatchEvents'
type MockScorekeeper_MatchEvents_Call struct {
	*mock.Call
}

// MatchEvents is a helper method to define mock.On call
//   - ctx context.Context
//   - matchID string
func (_e *MockScorekeeper_Expecter) MatchEvents(ctx interface{}, matchID interface{}) *MockScorekeeper_MatchEvents_Call {
	return &MockScorekeeper_MatchEvents_Call{Call: _e.mock.On("MatchEvents", ctx, matchID)}
}

func (_c *MockScorekeeper_MatchEvents_Call) Run(run func(ctx context.Context, matchID string)) *MockScorekeeper_MatchEvents_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockScorekeeper_MatchEvents_Call) Return(_a0 []event.Event, _a1 error) *MockScorekeeper_MatchEvents_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockScorekeeper_MatchEvents_Call) RunAndReturn(run func(context.Context, string) ([]event.Event, error)) *MockScorekeeper_MatchEvents_Call {
	_c.Call.Return(run)
	return _c
}

// MatchState provides a mock function with given fields: ctx, matchID
func (_m *MockScorekeeper) MatchState(ctx context.Context, matchID string) (*ports.MatchState, error) {
	ret := _m.Called(ctx, matchID)

	if len(ret) == 0 {
		panic("no return value specified for MatchState")
	}

	var r0 *ports.MatchState
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*ports.MatchState, error)); ok {
		return rf(ctx, matchID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *ports.MatchState); ok {
		r0 = rf(ctx, matchID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*ports.MatchState)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, matchID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockScorekeeper_MatchState_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'MatchState'
type MockScorekeeper_MatchState_Call struct {
	*mock.Call
}

// MatchState is a helper method to define mock.On call
//   - ctx context.Context
//   - matchID string
func (_e *MockScorekeeper_Expecter) MatchState(ctx interface{}, matchID interface{}) *MockScorekeeper_MatchState_Call {
	return &MockScorekeeper_MatchState_Call{Call: _e.mock.On("MatchState", ctx, matchID)}
}

func (_c *MockScorekeeper_MatchState_Call) Run(run func(ctx context.Context, matchID string)) *MockScorekeeper_MatchState_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockScorekeeper_MatchState_Call) Return(_a0 *ports.MatchState, _a1 error) *MockScorekeeper_MatchState_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockScorekeeper_MatchState_Call) RunAndReturn(run func(context.Context, string) (*ports.MatchState, error)) *MockScorekeeper_MatchState_Call {
	_c.Call.Return(run)
	return _c
}

// RecordPlateAppearance provides a mock function with given fields: ctx, cmd
func (_m *MockScorekeeper) RecordPlateAppearance(ctx context.Context, cmd ports.RecordPlateAppearanceCommand) ports.PlateAppearanceResult {
	ret := _m.Called(ctx, cmd)

	if len(ret) == 0 {
		panic("no return value specified for RecordPlateAppearance")
	}

	var r0 ports.PlateAppearanceResult
	if rf, ok := ret.Get(0).(func(context.Context, ports.RecordPlateAppearanceCommand) ports.PlateAppearanceResult); ok {
		r0 = rf(ctx, cmd)
	} else {
		r0 = ret.Get(0).(ports.PlateAppearanceResult)
	}

	return r0
}

// MockScorekeeper_RecordPlateAppearance_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'RecordPlateAppearance'
type MockScorekeeper_RecordPlateAppearance_Call struct {
	*mock.Call
}

// RecordPlateAppearance is a helper method to define mock.On call
//   - ctx context.Context
//   - cmd ports.RecordPlateAppearanceCommand
func (_e *MockScorekeeper_Expecter) RecordPlateAppearance(ctx interface{}, cmd interface{}) *MockScorekeeper_RecordPlateAppearance_Call {
	return &MockScorekeeper_RecordPlateAppearance_Call{Call: _e.mock.On("RecordPlateAppearance", ctx, cmd)}
}

func (_c *MockScorekeeper_RecordPlateAppearance_Call) Run(run func(ctx context.Context, cmd ports.RecordPlateAppearanceCommand)) *MockScorekeeper_RecordPlateAppearance_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(ports.RecordPlateAppearanceCommand))
	})
	return _c
}

func (_c *MockScorekeeper_RecordPlateAppearance_Call) Return(_a0 ports.PlateAppearanceResult) *MockScorekeeper_RecordPlateAppearance_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockScorekeeper_RecordPlateAppearance_Call) RunAndReturn(run func(context.Context, ports.RecordPlateAppearanceCommand) ports.PlateAppearanceResult) *MockScorekeeper_RecordPlateAppearance_Call {
	_c.Call.Return(run)
	return _c
}

// Redo provides a mock function with given fields: ctx, cmd
func (_m *MockScorekeeper) Redo(ctx context.Context, cmd ports.RedoCommand) ports.HistoryResult {
	ret := _m.Called(ctx, cmd)

	if len(ret) == 0 {
		panic("no return value specified for Redo")
	}

	var r0 ports.HistoryResult
	if rf, ok := ret.Get(0).(func(context.Context, ports.RedoCommand) ports.HistoryResult); ok {
		r0 = rf(ctx, cmd)
	} else {
		r0 = ret.Get(0).(ports.HistoryResult)
	}

	return r0
}

// MockScorekeeper_Redo_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Redo'
type MockScorekeeper_Redo_Call struct {
	*mock.Call
}

// Redo is a helper method to define mock.On call
//   - ctx context.Context
//   - cmd ports.RedoCommand
func (_e *MockScorekeeper_Expecter) Redo(ctx interface{}, cmd interface{}) *MockScorekeeper_Redo_Call {
	return &MockScorekeeper_Redo_Call{Call: _e.mock.On("Redo", ctx, cmd)}
}

func (_c *MockScorekeeper_Redo_Call) Run(run func(ctx context.Context, cmd ports.RedoCommand)) *MockScorekeeper_Redo_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(ports.RedoCommand))
	})
	return _c
}

func (_c *MockScorekeeper_Redo_Call) Return(_a0 ports.HistoryResult) *MockScorekeeper_Redo_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockScorekeeper_Redo_Call) RunAndReturn(run func(context.Context, ports.RedoCommand) ports.HistoryResult) *MockScorekeeper_Redo_Call {
	_c.Call.Return(run)
	return _c
}

// StartMatch provides a mock function with given fields: ctx, cmd
func (_m *MockScorekeeper) StartMatch(ctx context.Context, cmd ports.StartMatchCommand) ports.StartMatchResult {
	ret := _m.Called(ctx, cmd)

	if len(ret) == 0 {
		panic("no return value specified for StartMatch")
	}

	var r0 ports.StartMatchResult
	if rf, ok := ret.Get(0).(func(context.Context, ports.StartMatchCommand) ports.StartMatchResult); ok {
		r0 = rf(ctx, cmd)
	} else {
		r0 = ret.Get(0).(ports.StartMatchResult)
	}

	return r0
}

// MockScorekeeper_StartMatch_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'StartMatch'
type MockScorekeeper_StartMatch_Call struct {
	*mock.Call
}

// StartMatch is a helper method to define mock.On call
//   - ctx context.Context
//   - cmd ports.StartMatchCommand
func (_e *MockScorekeeper_Expecter) StartMatch(ctx interface{}, cmd interface{}) *MockScorekeeper_StartMatch_Call {
	return &MockScorekeeper_StartMatch_Call{Call: _e.mock.On("StartMatch", ctx, cmd)}
}

func (_c *MockScorekeeper_StartMatch_Call) Run(run func(ctx context.Context, cmd ports.StartMatchCommand)) *MockScorekeeper_StartMatch_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(ports.StartMatchCommand))
	})
	return _c
}

func (_c *MockScorekeeper_StartMatch_Call) Return(_a0 ports.StartMatchResult) *MockScorekeeper_StartMatch_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockScorekeeper_StartMatch_Call) RunAndReturn(run func(context.Context, ports.StartMatchCommand) ports.StartMatchResult) *MockScorekeeper_StartMatch_Call {
	_c.Call.Return(run)
	return _c
}

// SubstitutePlayer provides a mock function with given fields: ctx, cmd
func (_m *MockScorekeeper) SubstitutePlayer(ctx context.Context, cmd ports.SubstitutePlayerCommand) ports.SubstitutionResult {
	ret := _m.Called(ctx, cmd)

	if len(ret) == 0 {
		panic("no return value specified for SubstitutePlayer")
	}

	var r0 ports.SubstitutionResult
	if rf, ok := ret.Get(0).(func(context.Context, ports.SubstitutePlayerCommand) ports.SubstitutionResult); ok {
		r0 = rf(ctx, cmd)
	} else {
		r0 = ret.Get(0).(ports.SubstitutionResult)
	}

	return r0
}

// MockScorekeeper_SubstitutePlayer_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'SubstitutePlayer'
type MockScorekeeper_SubstitutePlayer_Call struct {
	*mock.Call
}

// SubstitutePlayer is a helper method to define mock.On call
//   - ctx context.Context
//   - cmd ports.SubstitutePlayerCommand
func (_e *MockScorekeeper_Expecter) SubstitutePlayer(ctx interface{}, cmd interface{}) *MockScorekeeper_SubstitutePlayer_Call {
	return &MockScorekeeper_SubstitutePlayer_Call{Call: _e.mock.On("SubstitutePlayer", ctx, cmd)}
}

func (_c *MockScorekeeper_SubstitutePlayer_Call) Run(run func(ctx context.Context, cmd ports.SubstitutePlayerCommand)) *MockScorekeeper_SubstitutePlayer_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(ports.SubstitutePlayerCommand))
	})
	return _c
}

func (_c *MockScorekeeper_SubstitutePlayer_Call) Return(_a0 ports.SubstitutionResult) *MockScorekeeper_SubstitutePlayer_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockScorekeeper_SubstitutePlayer_Call) RunAndReturn(run func(context.Context, ports.SubstitutePlayerCommand) ports.SubstitutionResult) *MockScorekeeper_SubstitutePlayer_Call {
	_c.Call.Return(run)
	return _c
}

// Undo provides a mock function with given fields: ctx, cmd
func (_m *MockScorekeeper) Undo(ctx context.Context, cmd ports.UndoCommand) ports.HistoryResult {
	ret := _m.Called(ctx, cmd)

	if len(ret) == 0 {
		panic("no return value specified for Undo")
	}

	var r0 ports.HistoryResult
	if rf, ok := ret.Get(0).(func(context.Context, ports.UndoCommand) ports.HistoryResult); ok {
		r0 = rf(ctx, cmd)
	} else {
		r0 = ret.Get(0).(ports.HistoryResult)
	}

	return r0
}

// MockScorekeeper_Undo_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Undo'
type MockScorekeeper_Undo_Call struct {
	*mock.Call
}

// Undo is a helper method to define mock.On call
//   - ctx context.Context
//   - cmd ports.UndoCommand
func (_e *MockScorekeeper_Expecter) Undo(ctx interface{}, cmd interface{}) *MockScorekeeper_Undo_Call {
	return &MockScorekeeper_Undo_Call{Call: _e.mock.On("Undo", ctx, cmd)}
}

func (_c *MockScorekeeper_Undo_Call) Run(run func(ctx context.Context, cmd ports.UndoCommand)) *MockScorekeeper_Undo_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(ports.UndoCommand))
	})
	return _c
}

func (_c *MockScorekeeper_Undo_Call) Return(_a0 ports.HistoryResult) *MockScorekeeper_Undo_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockScorekeeper_Undo_Call) RunAndReturn(run func(context.Context, ports.UndoCommand) ports.HistoryResult) *MockScorekeeper_Undo_Call {
	_c.Call.Return(run)
	return _c
}

// VerifyMatch provides a mock function with given fields: ctx, matchID
func (_m *MockScorekeeper) VerifyMatch(ctx context.Context, matchID string) ports.VerifyResult {
	ret := _m.Called(ctx, matchID)

	if len(ret) == 0 {
		panic("no return value specified for VerifyMatch")
	}

	var r0 ports.VerifyResult
	if rf, ok := ret.Get(0).(func(context.Context, string) ports.VerifyResult); ok {
		r0 = rf(ctx, matchID)
	} else {
		r0 = ret.Get(0).(ports.VerifyResult)
	}

	return r0
}

// MockScorekeeper_VerifyMatch_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'VerifyMatch'
type MockScorekeeper_VerifyMatch_Call struct {
	*mock.Call
}

// VerifyMatch is a helper method to define mock.On call
//   - ctx context.Context
//   - matchID string
func (_e *MockScorekeeper_Expecter) VerifyMatch(ctx interface{}, matchID interface{}) *MockScorekeeper_VerifyMatch_Call {
	return &MockScorekeeper_VerifyMatch_Call{Call: _e.mock.On("VerifyMatch", ctx, matchID)}
}

func (_c *MockScorekeeper_VerifyMatch_Call) Run(run func(ctx context.Context, matchID string)) *MockScorekeeper_VerifyMatch_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockScorekeeper_VerifyMatch_Call) Return(_a0 ports.VerifyResult) *MockScorekeeper_VerifyMatch_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockScorekeeper_VerifyMatch_Call) RunAndReturn(run func(context.Context, string) ports.VerifyResult) *MockScorekeeper_VerifyMatch_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockScorekeeper creates a new instance of MockScorekeeper. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockScorekeeper(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockScorekeeper {
	mock := &MockScorekeeper{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

package mocks

import (
	context "context"
	ports "github.com/jsamuelsen11/scorebook/internal/ports"

	mock "github.com/stretchr/testify/mock"
)

// MockNotifier is an autogenerated mock type for the Notifier type
type MockNotifier struct {
	mock.Mock
}

type MockNotifier_Expecter struct {
	mock *mock.Mock
}

func (_m *MockNotifier) EXPECT() *MockNotifier_Expecter {
	return &MockNotifier_Expecter{mock: &_m.Mock}
}

// NotifyMatchEnded provides a mock function with given fields: ctx, n
func (_m *MockNotifier) NotifyMatchEnded(ctx context.Context, n ports.MatchNotification) error {
	ret := _m.Called(ctx, n)

	if len(ret) == 0 {
		panic("no return value specified for NotifyMatchEnded")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, ports.MatchNotification) error); ok {
		r0 = rf(ctx, n)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockNotifier_NotifyMatchEnded_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'NotifyMatchEnded'
type MockNotifier_NotifyMatchEnded_Call struct {
	*mock.Call
}

// NotifyMatchEnded is a helper method to define mock.On call
//   - ctx context.Context
//   - n ports.MatchNotification
func (_e *MockNotifier_Expecter) NotifyMatchEnded(ctx interface{}, n interface{}) *MockNotifier_NotifyMatchEnded_Call {
	return &MockNotifier_NotifyMatchEnded_Call{Call: _e.mock.On("NotifyMatchEnded", ctx, n)}
}

func (_c *MockNotifier_NotifyMatchEnded_Call) Run(run func(ctx context.Context, n ports.MatchNotification)) *MockNotifier_NotifyMatchEnded_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(ports.MatchNotification))
	})
	return _c
}

func (_c *MockNotifier_NotifyMatchEnded_Call) Return(_a0 error) *MockNotifier_NotifyMatchEnded_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockNotifier_NotifyMatchEnded_Call) RunAndReturn(run func(context.Context, ports.MatchNotification) error) *MockNotifier_NotifyMatchEnded_Call {
	_c.Call.Return(run)
	return _c
}

// NotifyMatchStarted provides a mock function with given fields: ctx, n
func (_m *MockNotifier) NotifyMatchStarted(ctx context.Context, n ports.MatchNotification) error {
	ret := _m.Called(ctx, n)

	if len(ret) == 0 {
		panic("no return value specified for NotifyMatchStarted")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, ports.MatchNotification) error); ok {
		r0 = rf(ctx, n)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockNotifier_NotifyMatchStarted_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'NotifyMatchStarted'
type MockNotifier_NotifyMatchStarted_Call struct {
	*mock.Call
}

// NotifyMatchStarted is a helper method to define mock.On call
//   - ctx context.Context
//   - n ports.MatchNotification
func (_e *MockNotifier_Expecter) NotifyMatchStarted(ctx interface{}, n interface{}) *MockNotifier_NotifyMatchStarted_Call {
	return &MockNotifier_NotifyMatchStarted_Call{Call: _e.mock.On("NotifyMatchStarted", ctx, n)}
}

func (_c *MockNotifier_NotifyMatchStarted_Call) Run(run func(ctx context.Context, n ports.MatchNotification)) *MockNotifier_NotifyMatchStarted_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(ports.MatchNotification))
	})
	return _c
}

func (_c *MockNotifier_NotifyMatchStarted_Call) Return(_a0 error) *MockNotifier_NotifyMatchStarted_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockNotifier_NotifyMatchStarted_Call) RunAndReturn(run func(context.Context, ports.MatchNotification) error) *MockNotifier_NotifyMatchStarted_Call {
	_c.Call.Return(run)
	return _c
}

// NotifyScoreUpdate provides a mock function with given fields: ctx, n
func (_m *MockNotifier) NotifyScoreUpdate(ctx context.Context, n ports.MatchNotification) error {
	ret := _m.Called(ctx, n)

	if len(ret) == 0 {
		panic("no return value specified for NotifyScoreUpdate")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, ports.MatchNotification) error); ok {
		r0 = rf(ctx, n)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockNotifier_NotifyScoreUpdate_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'NotifyScoreUpdate'
type MockNotifier_NotifyScoreUpdate_Call struct {
	*mock.Call
}

// NotifyScoreUpdate is a helper method to define mock.On call
//   - ctx context.Context
//   - n ports.MatchNotification
func (_e *MockNotifier_Expecter) NotifyScoreUpdate(ctx interface{}, n interface{}) *MockNotifier_NotifyScoreUpdate_Call {
	return &MockNotifier_NotifyScoreUpdate_Call{Call: _e.mock.On("NotifyScoreUpdate", ctx, n)}
}

func (_c *MockNotifier_NotifyScoreUpdate_Call) Run(run func(ctx context.Context, n ports.MatchNotification)) *MockNotifier_NotifyScoreUpdate_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(ports.MatchNotification))
	})
	return _c
}

func (_c *MockNotifier_NotifyScoreUpdate_Call) Return(_a0 error) *MockNotifier_NotifyScoreUpdate_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockNotifier_NotifyScoreUpdate_Call) RunAndReturn(run func(context.Context, ports.MatchNotification) error) *MockNotifier_NotifyScoreUpdate_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockNotifier creates a new instance of MockNotifier. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockNotifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotifier {
	mock := &MockNotifier{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

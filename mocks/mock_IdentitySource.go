package mocks

import (
	context "context"
	ports "github.com/jsamuelsen11/scorebook/internal/ports"

	mock "github.com/stretchr/testify/mock"
)

// MockIdentitySource is an autogenerated mock type for the IdentitySource type
type MockIdentitySource struct {
	mock.Mock
}

type MockIdentitySource_Expecter struct {
	mock *mock.Mock
}

func (_m *MockIdentitySource) EXPECT() *MockIdentitySource_Expecter {
	return &MockIdentitySource_Expecter{mock: &_m.Mock}
}

// CurrentUser provides a mock function with given fields: ctx
func (_m *MockIdentitySource) CurrentUser(ctx context.Context) (*ports.User, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for CurrentUser")
	}

	var r0 *ports.User
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (*ports.User, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) *ports.User); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*ports.User)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockIdentitySource_CurrentUser_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'CurrentUser'
type MockIdentitySource_CurrentUser_Call struct {
	*mock.Call
}

// CurrentUser is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockIdentitySource_Expecter) CurrentUser(ctx interface{}) *MockIdentitySource_CurrentUser_Call {
	return &MockIdentitySource_CurrentUser_Call{Call: _e.mock.On("CurrentUser", ctx)}
}

func (_c *MockIdentitySource_CurrentUser_Call) Run(run func(ctx context.Context)) *MockIdentitySource_CurrentUser_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockIdentitySource_CurrentUser_Call) Return(_a0 *ports.User, _a1 error) *MockIdentitySource_CurrentUser_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockIdentitySource_CurrentUser_Call) RunAndReturn(run func(context.Context) (*ports.User, error)) *MockIdentitySource_CurrentUser_Call {
	_c.Call.Return(run)
	return _c
}

// HasPermission provides a mock function with given fields: ctx, userID, action
func (_m *MockIdentitySource) HasPermission(ctx context.Context, userID string, action string) (bool, error) {
	ret := _m.Called(ctx, userID, action)

	if len(ret) == 0 {
		panic("no return value specified for HasPermission")
	}

	var r0 bool
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (bool, error)); ok {
		return rf(ctx, userID, action)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string) bool); ok {
		r0 = rf(ctx, userID, action)
	} else {
		r0 = ret.Get(0).(bool)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, userID, action)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockIdentitySource_HasPermission_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'HasPermission'
type MockIdentitySource_HasPermission_Call struct {
	*mock.Call
}

// HasPermission is a helper method to define mock.On call
//   - ctx context.Context
//   - userID string
//   - action string
func (_e *MockIdentitySource_Expecter) HasPermission(ctx interface{}, userID interface{}, action interface{}) *MockIdentitySource_HasPermission_Call {
	return &MockIdentitySource_HasPermission_Call{Call: _e.mock.On("HasPermission", ctx, userID, action)}
}

func (_c *MockIdentitySource_HasPermission_Call) Run(run func(ctx context.Context, userID string, action string)) *MockIdentitySource_HasPermission_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].(string))
	})
	return _c
}

func (_c *MockIdentitySource_HasPermission_Call) Return(_a0 bool, _a1 error) *MockIdentitySource_HasPermission_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockIdentitySource_HasPermission_Call) RunAndReturn(run func(context.Context, string, string) (bool, error)) *MockIdentitySource_HasPermission_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockIdentitySource creates a new instance of MockIdentitySource. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockIdentitySource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIdentitySource {
	mock := &MockIdentitySource{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

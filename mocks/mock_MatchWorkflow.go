package mocks

import (
	context "context"
	ports "github.com/jsamuelsen11/scorebook/internal/ports"

	mock "github.com/stretchr/testify/mock"
)

// MockMatchWorkflow is an autogenerated mock type for the MatchWorkflow type
type MockMatchWorkflow struct {
	mock.Mock
}

type MockMatchWorkflow_Expecter struct {
	mock *mock.Mock
}

func (_m *MockMatchWorkflow) EXPECT() *MockMatchWorkflow_Expecter {
	return &MockMatchWorkflow_Expecter{mock: &_m.Mock}
}

// Run provides a mock function with given fields: ctx, plan
func (_m *MockMatchWorkflow) Run(ctx context.Context, plan ports.MatchPlan) ports.WorkflowResult {
	ret := _m.Called(ctx, plan)

	if len(ret) == 0 {
		panic("no return value specified for Run")
	}

	var r0 ports.WorkflowResult
	if rf, ok := ret.Get(0).(func(context.Context, ports.MatchPlan) ports.WorkflowResult); ok {
		r0 = rf(ctx, plan)
	} else {
		r0 = ret.Get(0).(ports.WorkflowResult)
	}

	return r0
}

// MockMatchWorkflow_Run_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Run'
type MockMatchWorkflow_Run_Call struct {
	*mock.Call
}

// Run is a helper method to define mock.On call
//   - ctx context.Context
//   - plan ports.MatchPlan
func (_e *MockMatchWorkflow_Expecter) Run(ctx interface{}, plan interface{}) *MockMatchWorkflow_Run_Call {
	return &MockMatchWorkflow_Run_Call{Call: _e.mock.On("Run", ctx, plan)}
}

func (_c *MockMatchWorkflow_Run_Call) Run(run func(ctx context.Context, plan ports.MatchPlan)) *MockMatchWorkflow_Run_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(ports.MatchPlan))
	})
	return _c
}

func (_c *MockMatchWorkflow_Run_Call) Return(_a0 ports.WorkflowResult) *MockMatchWorkflow_Run_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockMatchWorkflow_Run_Call) RunAndReturn(run func(context.Context, ports.MatchPlan) ports.WorkflowResult) *MockMatchWorkflow_Run_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockMatchWorkflow creates a new instance of MockMatchWorkflow. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockMatchWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMatchWorkflow {
	mock := &MockMatchWorkflow{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

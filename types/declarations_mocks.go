// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package types is a generated GoMock package.
package types

import (
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockDeclarations is a mock of Declarations interface.
type MockDeclarations struct {
	ctrl     *gomock.Controller
	recorder *MockDeclarationsMockRecorder
	isgomock struct{}
}

// MockDeclarationsMockRecorder is the mock recorder for MockDeclarations.
type MockDeclarationsMockRecorder struct {
	mock *MockDeclarations
}

// NewMockDeclarations creates a new mock instance.
func NewMockDeclarations(ctrl *gomock.Controller) *MockDeclarations {
	mock := &MockDeclarations{ctrl: ctrl}
	mock.recorder = &MockDeclarationsMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockDeclarations) EXPECT() *MockDeclarationsMockRecorder {
	return m.recorder
}

// Arity mocks base method.
func (m *MockDeclarations) Arity(ctor Constructor) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Arity", ctor)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Arity indicates an expected call of Arity.
func (mr *MockDeclarationsMockRecorder) Arity(ctor any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Arity", reflect.TypeOf((*MockDeclarations)(nil).Arity), ctor)
}

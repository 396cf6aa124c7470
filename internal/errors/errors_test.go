package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ErrorsTestSuite 错误包测试套件
type ErrorsTestSuite struct {
	suite.Suite
}

// 测试创建新错误
func (suite *ErrorsTestSuite) TestNew() {
	err := New(ErrInvalidParam)
	suite.NotNil(err)
	suite.Equal(ErrInvalidParam, err.Code)
	suite.Equal("无效的参数", err.Message)
	suite.Empty(err.Details)

	// 带详情
	err = New(ErrInvalidLines, "线数必须在1到3之间")
	suite.Equal(ErrInvalidLines, err.Code)
	suite.Equal("无效的下注线数", err.Message)
	suite.Equal("线数必须在1到3之间", err.Details)

	// 多个详情
	err = New(ErrInsufficientBalance, "余额: 10", "需要: 30")
	suite.Equal("余额: 10; 需要: 30", err.Details)
}

func (suite *ErrorsTestSuite) TestNewf() {
	err := Newf(ErrInvalidBet, "投注 %d 超出范围 [%d, %d]", 101, 1, 100)
	suite.Equal(ErrInvalidBet, err.Code)
	suite.Equal("投注 101 超出范围 [1, 100]", err.Details)
}

// 测试错误包装
func (suite *ErrorsTestSuite) TestWrap() {
	originalErr := errors.New("原始错误")
	wrappedErr := Wrap(originalErr, ErrPoolExhausted)
	suite.Equal(ErrPoolExhausted, wrappedErr.Code)
	suite.Equal("原始错误", wrappedErr.Details)
	suite.Equal(originalErr, wrappedErr.Cause)

	suite.Nil(Wrap(nil, ErrUnknown))

	// 已有的AppError保留原始错误码
	appErr := New(ErrInvalidDeposit, "金额必须大于0")
	wrappedAppErr := Wrap(appErr, ErrInvalidParam, "额外信息")
	suite.Equal(ErrInvalidDeposit, wrappedAppErr.Code)
	suite.Contains(wrappedAppErr.Details, "额外信息")
	suite.Contains(wrappedAppErr.Details, "金额必须大于0")
}

func (suite *ErrorsTestSuite) TestWrapf() {
	originalErr := errors.New("file not found")
	wrappedErr := Wrapf(originalErr, ErrConfigLoad, "读取 %s 失败", "config.yaml")
	suite.Equal(ErrConfigLoad, wrappedErr.Code)
	suite.Equal("读取 config.yaml 失败", wrappedErr.Details)
	suite.True(errors.Is(wrappedErr, originalErr))
}

// 测试错误码判断
func (suite *ErrorsTestSuite) TestIs() {
	err := New(ErrAwaitingDeposit)
	suite.True(Is(err, ErrAwaitingDeposit))
	suite.False(Is(err, ErrNotFound))
	suite.False(Is(nil, ErrAwaitingDeposit))
	suite.False(Is(errors.New("标准错误"), ErrUnknown))

	// 经fmt包装后仍能识别
	suite.True(Is(fmt.Errorf("spin: %w", err), ErrAwaitingDeposit))
}

func (suite *ErrorsTestSuite) TestGetCode() {
	suite.Equal(ErrSpinInProgress, GetCode(New(ErrSpinInProgress)))
	suite.Equal(ErrUnknown, GetCode(errors.New("标准错误")))
	suite.Equal(ErrorCode(0), GetCode(nil))
}

func (suite *ErrorsTestSuite) TestError() {
	err := &AppError{
		Code:    ErrNotFound,
		Message: "资源未找到",
	}
	suite.Equal("[1002] 资源未找到", err.Error())

	err.Details = "路由: /api/v1/foo"
	suite.Equal("[1002] 资源未找到: 路由: /api/v1/foo", err.Error())
}

func (suite *ErrorsTestSuite) TestUnwrap() {
	originalErr := errors.New("原始错误")
	suite.Equal(originalErr, Wrap(originalErr, ErrUnknown).Unwrap())
	suite.Nil(New(ErrUnknown).Unwrap())
}

func (suite *ErrorsTestSuite) TestWithDetails() {
	err := New(ErrInvalidParam).WithDetails("参数不能为空")
	suite.Equal("参数不能为空", err.Details)
}

func (suite *ErrorsTestSuite) TestWithCause() {
	cause := errors.New("yaml: line 3")
	err := New(ErrConfigParse).WithCause(cause)
	suite.Equal(cause, err.Cause)
	suite.Equal("yaml: line 3", err.Details)

	// 保留原有Details
	err2 := New(ErrConfigParse, "解析失败").WithCause(cause)
	suite.Equal("解析失败", err2.Details)
}

// 测试HTTP状态码映射
func (suite *ErrorsTestSuite) TestHTTPStatus() {
	testCases := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrInvalidParam, 400},
		{ErrInvalidBet, 400},
		{ErrInvalidLines, 400},
		{ErrInvalidDeposit, 400},
		{ErrInsufficientBalance, 402},
		{ErrNotFound, 404},
		{ErrTimeout, 408},
		{ErrCanceled, 408},
		{ErrAwaitingDeposit, 409},
		{ErrAlreadyFunded, 409},
		{ErrSpinInProgress, 409},
		{ErrBalanceOverflow, 409},
		{ErrPoolExhausted, 500},
		{ErrUnknown, 500},
	}

	for _, tc := range testCases {
		err := New(tc.code)
		suite.Equal(tc.expected, err.HTTPStatus(), "错误码 %d 应该返回HTTP状态码 %d", tc.code, tc.expected)
	}
}

func (suite *ErrorsTestSuite) TestIsRetryable() {
	for _, code := range []ErrorCode{ErrTimeout, ErrSpinInProgress, ErrWebSocketConnect} {
		suite.True(IsRetryable(New(code)), "错误码 %d 应该是可重试的", code)
	}
	for _, code := range []ErrorCode{ErrInvalidParam, ErrInsufficientBalance, ErrInvalidLines} {
		suite.False(IsRetryable(New(code)), "错误码 %d 不应该是可重试的", code)
	}
	suite.False(IsRetryable(nil))
}

func (suite *ErrorsTestSuite) TestIsCritical() {
	for _, code := range []ErrorCode{ErrPoolExhausted, ErrConfigLoad, ErrConfigMissing, ErrConfigValidate} {
		suite.True(IsCritical(New(code)), "错误码 %d 应该是严重错误", code)
	}
	for _, code := range []ErrorCode{ErrInvalidBet, ErrNotFound, ErrTimeout} {
		suite.False(IsCritical(New(code)), "错误码 %d 不应该是严重错误", code)
	}
	suite.False(IsCritical(nil))
}

func (suite *ErrorsTestSuite) TestStackCapture() {
	err := New(ErrUnknown)
	suite.NotEmpty(err.Stack)
	suite.NotEmpty(err.GetStack())
}

func (suite *ErrorsTestSuite) TestErrorResponse() {
	err := New(ErrInsufficientBalance)
	response := NewErrorResponse(err, "req-123")

	suite.False(response.Success)
	suite.Equal(err, response.Error)
	suite.Equal("req-123", response.RequestID)
	suite.Greater(response.Timestamp, int64(0))
}

func (suite *ErrorsTestSuite) TestUnknownErrorCode() {
	err := New(ErrorCode(99999))
	suite.Equal(ErrorCode(99999), err.Code)
	suite.Equal("未知错误", err.Message)
}

// 测试游戏相关错误
func (suite *ErrorsTestSuite) TestGameErrors() {
	gameErrors := map[ErrorCode]string{
		ErrAwaitingDeposit:     "请先充值",
		ErrInsufficientBalance: "余额不足",
		ErrInvalidBet:          "无效的投注金额",
		ErrGameStateError:      "游戏状态错误",
		ErrSpinInProgress:      "转轮正在进行中",
		ErrInvalidLines:        "无效的下注线数",
		ErrInvalidDeposit:      "无效的充值金额",
		ErrPoolExhausted:       "卷轴符号池不足",
		ErrBalanceOverflow:     "余额超出上限",
	}

	for code, expectedMsg := range gameErrors {
		suite.Equal(expectedMsg, New(code).Message)
	}
}

func (suite *ErrorsTestSuite) TestConfigErrors() {
	configErrors := map[ErrorCode]string{
		ErrConfigLoad:     "配置加载失败",
		ErrConfigParse:    "配置解析失败",
		ErrConfigValidate: "配置验证失败",
		ErrConfigMissing:  "配置项缺失",
	}

	for code, expectedMsg := range configErrors {
		suite.Equal(expectedMsg, New(code).Message)
	}
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

package consts

// 通用错误码
const (
	CodeSuccess = 0 // 成功
)

// 客户端错误 (1xxxx)
const (
	CodeParamError       = 10001 // 参数验证失败
	CodeResourceNotFound = 10003 // 资源不存在
	CodeTooManyRequests  = 10005 // 请求过于频繁
)

// 用户模块错误 (11xxx)
const (
	CodeUserNotFound = 11001 // 用户不存在或未激活
)

// 滑动/匹配模块错误 (15xxx)
const (
	CodeSelfLike          = 15001 // 不能对自己操作
	CodeDailyLimitReached = 15002 // 今日配额已用完
	CodeDuplicateSwipe    = 15003 // 重复滑动
	CodeSessionLimit      = 15004 // 本次会话滑动次数已达上限
)

// 撤销模块错误 (16xxx)
const (
	CodeNoUndoState  = 16001 // 没有可撤销的操作
	CodeUndoExpired  = 16002 // 撤销窗口已过期
	CodeUndoLikeGone = 16003 // 喜欢记录不存在（存储不一致）
	CodeUndoFailed   = 16004 // 撤销失败
)

// 消息模块错误 (13xxx)
const (
	CodeConversationNotFound = 13004 // 会话不存在
	CodeNoActiveMatch        = 13005 // 没有可聊天的匹配
	CodeEmptyMessage         = 13006 // 消息为空
	CodeMessageTooLong       = 13007 // 消息过长
	CodeInvalidPage          = 13008 // 分页参数错误
)

// 关系模块错误 (12xxx)
const (
	CodeFriendRequestPending  = 12005 // 已有待处理的好友申请
	CodeFriendRequestNotFound = 12006 // 好友申请不存在
	CodeNotRequestRecipient   = 12007 // 只有接收方可以处理申请
	CodeRequestNotPending     = 12008 // 申请已处理
	CodeMatchNotFound         = 12009 // 匹配不存在
	CodeRelationshipEnded     = 12010 // 关系已结束
	CodeInvalidTransition     = 12011 // 非法的状态流转
	CodeTransitionCompensated = 12012 // 第二步失败，已补偿回滚
	CodeTransitionPartial     = 12013 // 部分失败，数据待修复
)

// 服务端错误 (3xxxx)
const (
	CodeInternalError      = 30001 // 服务器内部错误
	CodeServiceUnavailable = 30002 // 服务暂不可用
)

// 错误消息映射
var CodeMessage = map[int32]string{
	CodeSuccess: "success",

	// 客户端错误
	CodeParamError:       "参数验证失败",
	CodeResourceNotFound: "资源不存在",
	CodeTooManyRequests:  "请求过于频繁",

	// 用户模块
	CodeUserNotFound: "用户不存在或未激活",

	// 滑动/匹配模块
	CodeSelfLike:          "不能对自己操作",
	CodeDailyLimitReached: "今日配额已用完",
	CodeDuplicateSwipe:    "重复滑动",
	CodeSessionLimit:      "本次会话滑动次数已达上限",

	// 撤销模块
	CodeNoUndoState:  "没有可撤销的操作",
	CodeUndoExpired:  "撤销窗口已过期",
	CodeUndoLikeGone: "喜欢记录不存在",
	CodeUndoFailed:   "撤销失败",

	// 消息模块
	CodeConversationNotFound: "会话不存在",
	CodeNoActiveMatch:        "没有可聊天的匹配",
	CodeEmptyMessage:         "消息不能为空",
	CodeMessageTooLong:       "消息过长",
	CodeInvalidPage:          "分页参数错误",

	// 关系模块
	CodeFriendRequestPending:  "已有待处理的好友申请",
	CodeFriendRequestNotFound: "好友申请不存在",
	CodeNotRequestRecipient:   "只有接收方可以处理申请",
	CodeRequestNotPending:     "申请已处理",
	CodeMatchNotFound:         "匹配不存在",
	CodeRelationshipEnded:     "关系已结束",
	CodeInvalidTransition:     "非法的状态流转",
	CodeTransitionCompensated: "操作失败，已回滚",
	CodeTransitionPartial:     "操作部分失败",

	// 服务端错误
	CodeInternalError:      "服务器内部错误",
	CodeServiceUnavailable: "服务暂不可用",
}

// GetMessage 根据错误码获取错误消息
func GetMessage(code int32) string {
	if msg, ok := CodeMessage[code]; ok {
		return msg
	}
	return "未知错误"
}

package repository

const (
	// luaAddWithExpire 集合写入，仅在 Key 首次创建时设置过期时间
	// KEYS[1]: 集合 key
	// ARGV[1]: member
	// ARGV[2]: 过期时间（秒）
	// 返回: SADD 的结果（1 新增，0 已存在）
	luaAddWithExpire = `
local created = redis.call('EXISTS', KEYS[1]) == 0
local added = redis.call('SADD', KEYS[1], ARGV[1])
if created then
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[2]))
end
return added
`

	// luaIncrementIfExists 计数器递增（仅在 key 存在时），避免过期后从 1 开始计数
	// KEYS[1]: 计数器 key
	// ARGV[1]: 过期时间（秒）
	// 返回: 递增后的值，key 不存在返回 -1
	luaIncrementIfExists = `
if redis.call('EXISTS', KEYS[1]) == 1 then
	local current = redis.call('INCR', KEYS[1])
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
	return current
end
return -1
`
)

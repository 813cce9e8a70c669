package redis

const (
	// replaceReportScript atomically drops the previous report and writes the
	// new one. ARGV[4..] holds five values per table.
	replaceReportScript = `
local list_key = KEYS[1]        -- {prefix}report:tables
local stamp_key = KEYS[2]       -- {prefix}report:generated_at

local table_prefix = ARGV[1]    -- {prefix}report:table:
local generated_at = ARGV[2]
local count = tonumber(ARGV[3])

-- Clear the previous report
local old = redis.call('LRANGE', list_key, 0, -1)
for _, id in ipairs(old) do
  redis.call('DEL', table_prefix .. id)
end
redis.call('DEL', list_key)

-- Draw the new one
redis.call('SET', stamp_key, generated_at)
for i = 0, count - 1 do
  local base = 4 + i * 5
  local id = ARGV[base]
  redis.call('HSET', table_prefix .. id,
    'id', id,
    'title', ARGV[base + 1],
    'header', ARGV[base + 2],
    'rows', ARGV[base + 3],
    'placeholder', ARGV[base + 4]
  )
  redis.call('RPUSH', list_key, id)
end

return count
`
)

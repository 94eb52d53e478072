package privacy

import (
	"net/url"
	"regexp"
	"strings"
)

var reURLSchemeRE = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// MaskURL 把 RPC 地址降级为 "scheme://host[:port]"，去掉路径、参数与 userinfo。
// 托管节点常把 API key 放在路径或参数里（/v3/<key>、?apikey=），日志和 /api/meta 只能展示脱敏后的值。
// 输入不是合法 URL 时返回 "<masked_url>"。
func MaskURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !reURLSchemeRE.MatchString(raw) {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "<masked_url>"
	}
	if strings.TrimSpace(u.Hostname()) == "" {
		return "<masked_url>"
	}
	return u.Scheme + "://" + u.Host
}

package database

import (
	"fmt"
	"net/url"
	"strings"
)

// maskDSN 把 user:pass@ 中的密码替换为 ****
func maskDSN(dsn string) string {
	at := strings.Index(dsn, "@")
	if at <= 0 {
		return dsn
	}
	colon := strings.Index(dsn[:at], ":")
	if colon <= 0 {
		return dsn
	}
	return dsn[:colon+1] + "****" + dsn[at:]
}

// JDBC 参数 → go-sql-driver 参数；值为空表示直接丢弃
var jdbcParams = map[string]string{
	"characterEncoding":       "charset",
	"serverTimezone":          "loc",
	"useSSL":                  "tls",
	"useUnicode":              "",
	"zeroDateTimeBehavior":    "",
	"allowPublicKeyRetrieval": "",
}

func sslToTLS(v string) string {
	switch strings.ToLower(v) {
	case "true", "1":
		return "true"
	case "skip-verify", "preferred":
		return strings.ToLower(v)
	}
	return "false"
}

// normalizeMySQLDSN 接受 jdbc:mysql:// 或 mysql:// 形式的 URL，转换为
// user:pass@tcp(host:port)/db?... 。其它输入原样返回
func normalizeMySQLDSN(input, userOverride, passOverride string) string {
	in := strings.TrimPrefix(strings.TrimSpace(input), "jdbc:")
	if !strings.HasPrefix(in, "mysql://") {
		return strings.TrimSpace(input)
	}
	u, err := url.Parse(in)
	if err != nil {
		return in
	}

	var user, pass string
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	src := u.Query()
	if v := src.Get("user"); v != "" {
		user = v
	}
	if v := src.Get("password"); v != "" {
		pass = v
	}
	src.Del("user")
	src.Del("password")
	if userOverride != "" {
		user = userOverride
	}
	if passOverride != "" {
		pass = passOverride
	}

	q := url.Values{}
	for k, vs := range src {
		to, known := jdbcParams[k]
		switch {
		case !known:
			q[k] = vs
		case to == "":
		case to == "tls":
			q.Set(to, sslToTLS(vs[0]))
		case q.Get(to) == "" && src.Get(to) == "":
			q.Set(to, vs[0])
		}
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "true")
	}
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}

	cred := ""
	switch {
	case user != "" && pass != "":
		cred = user + ":" + pass + "@"
	case user != "":
		cred = user + "@"
	}
	dsn := fmt.Sprintf("%stcp(%s)/%s", cred, u.Host, strings.TrimPrefix(u.Path, "/"))
	if enc := q.Encode(); enc != "" {
		dsn += "?" + enc
	}
	return dsn
}

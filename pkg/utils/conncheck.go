package utils

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"time"

	"github.com/mpapenbr/openf1-analysis/log"
)

var dbURLRegex = regexp.MustCompile(
	"^postgres(ql)?://([^@/]*@)?(?P<addr>(?P<host>[^:/?]*)(:(?P<port>\\d+))?)(/.*)?$")

// WaitForTCP dials addr until it succeeds, timeout expires or ctx is done.
func WaitForTCP(ctx context.Context, addr string, timeout time.Duration) error {
	l := log.GetFromContext(ctx).Named("conncheck")
	timeoutReached := time.Now().Add(timeout)
	start := time.Now()
	l.Debug("wait for tcp connection",
		log.String("addr", addr),
		log.Duration("timeout", timeout))
	var d net.Dialer
	for time.Now().Before(timeoutReached) {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			conn.Close()
			l.Debug("tcp connection successful",
				log.String("addr", addr),
				log.Duration("duration", time.Since(start)))
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return fmt.Errorf("%s could not be reached after %v", addr, timeout)
}

// ExtractFromDBURL returns host:port of a postgres URL, port defaults to 5432.
// An empty string is returned if url is not a postgres URL.
func ExtractFromDBURL(url string) string {
	param := resolveRegex(dbURLRegex, url)
	if len(param) == 0 || param["host"] == "" {
		return ""
	}
	if port := param["port"]; port != "" {
		return param["addr"]
	}
	return fmt.Sprintf("%s:5432", param["addr"])
}

func resolveRegex(re *regexp.Regexp, url string) map[string]string {
	match := re.FindStringSubmatch(url)
	if match == nil {
		return nil
	}
	paramsMap := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if i > 0 && name != "" {
			paramsMap[name] = match[i]
		}
	}
	return paramsMap
}

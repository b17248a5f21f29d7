package zklogin

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// 隐式流程的令牌在 URI fragment 里，浏览器不会把 fragment 发给服务器，
// 回调页用一段脚本把 fragment 转成查询参数再转发回来
const relayPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Signing in…</title></head>
<body>
<script>location.replace(location.pathname + "/relay?" + location.hash.substring(1));</script>
</body>
</html>
`

const relayDonePage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Signed in</title></head>
<body><p>You can close this window and return to the terminal.</p></body>
</html>
`

// BrowserAgent 本机浏览器 + 回环监听实现的交互式用户代理
// RedirectURI 必须指向本机回环地址，与提供方登记的 redirect URI 一致
type BrowserAgent struct {
	RedirectURI string

	// 打开浏览器的钩子，默认按平台调用 open/xdg-open；测试可替换
	OpenURL func(url string) error
}

// Authenticate 启动回环监听并打开浏览器，阻塞直到重定向回来或 ctx 取消
// ctx 取消（用户在终端中断）返回 ErrUserAborted，同时关闭监听释放资源
func (a *BrowserAgent) Authenticate(ctx context.Context, authorizeURL string) (*url.URL, error) {
	redirect, err := url.Parse(a.RedirectURI)
	if err != nil {
		return nil, errors.Wrap(err, "malformed redirect URI")
	}

	resultCh := make(chan url.Values, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, relayPage)
	})
	mux.HandleFunc(redirect.Path+"/relay", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, relayDonePage)

		select {
		case resultCh <- r.URL.Query():
		default:
		}
	})

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %s", redirect.Host)
	}

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Redirect listener failed")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	open := a.OpenURL
	if open == nil {
		open = openBrowser
	}
	if err := open(authorizeURL); err != nil {
		log.Warn().Err(err).Msg("Failed to open browser, authorize manually")
		fmt.Printf("Open this URL in your browser to sign in:\n\n  %s\n\n", authorizeURL)
	}

	select {
	case values := <-resultCh:
		// 中继把 fragment 转成了查询参数，还原成 fragment 形式交给流程解析
		return &url.URL{
			Scheme:   redirect.Scheme,
			Host:     redirect.Host,
			Path:     redirect.Path,
			Fragment: values.Encode(),
		}, nil
	case <-ctx.Done():
		return nil, ErrUserAborted
	}
}

// openBrowser 按平台打开默认浏览器
func openBrowser(target string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", target).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target).Start()
	default:
		return exec.Command("xdg-open", target).Start()
	}
}

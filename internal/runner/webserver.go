package runner

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-shellwords"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/themizzi/e2eflows/internal/cli"
	"github.com/themizzi/e2eflows/internal/config"
	"github.com/themizzi/e2eflows/internal/handlers"
)

const (
	readyInterval = 100 * time.Millisecond
	readyTimeout  = time.Second
	stopTimeout   = 5 * time.Second
)

// ErrServerInUse is returned when the web server port already answers and
// reusing it is not allowed
var ErrServerInUse = errors.New("web server address is already used")

// webServer is the process or in-process server hosting the system under test
type webServer struct {
	url    string
	logger *log.Logger
	reused bool

	// in-process
	listener net.Listener
	server   *http.Server

	// external command
	cmd    *exec.Cmd
	exited chan struct{}
	err    error
}

func startWebServer(ctx context.Context, cfg *config.RunnerConfig, logger *log.Logger) (*webServer, error) {
	ws := &webServer{url: cfg.WebServerURL(), logger: logger}

	if checkReady(ctx, ws.url) == nil {
		if !cfg.Active.ReuseExistingServer {
			return nil, fmt.Errorf("%w: %s, make sure nothing is running there or set reuseExistingServer", ErrServerInUse, ws.url)
		}
		logger.Info("reusing existing server", "url", ws.url)
		ws.reused = true
		return ws, nil
	}

	var err error
	if cfg.WebServer.Command != "" {
		err = ws.startCommand(cfg.WebServer.Command, cfg.WebServer.Port)
	} else {
		err = ws.startInProcess(cfg.WebServer.StaticDir, cfg.WebServer.Port)
	}
	if err != nil {
		return nil, err
	}

	if err := ws.waitReady(ctx, cfg.WebServer.Timeout); err != nil {
		ws.Stop()
		return nil, err
	}
	logger.Info("web server ready", "url", ws.url)
	return ws, nil
}

func (ws *webServer) startInProcess(staticDir string, port int) error {
	listener, server, err := cli.StartServer(cli.ServerDependencies{
		ServerConfig:  config.ServerConfig{Port: strconv.Itoa(port), StaticDir: staticDir},
		StaticHandler: handlers.NewStaticHandler(staticDir),
		Logger:        ws.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to start web server: %w", err)
	}
	ws.listener, ws.server = listener, server
	return nil
}

func (ws *webServer) startCommand(command string, port int) error {
	args, err := shellwords.Parse(command)
	if err != nil {
		return fmt.Errorf("failed to parse webServer.command: %w", err)
	}
	if len(args) == 0 {
		return fmt.Errorf("webServer.command is empty")
	}

	out := ws.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.DebugLevel}).Writer()
	ws.cmd = exec.Command(args[0], args[1:]...)
	ws.cmd.Env = append(os.Environ(), "PORT="+strconv.Itoa(port))
	ws.cmd.Stdout = out
	ws.cmd.Stderr = out

	if err := ws.cmd.Start(); err != nil {
		return fmt.Errorf("failed to run %q: %w", command, err)
	}
	ws.logger.Info("started web server command", "command", command, "pid", ws.cmd.Process.Pid)

	ws.exited = make(chan struct{})
	go func() {
		ws.err = ws.cmd.Wait()
		close(ws.exited)
	}()
	return nil
}

// waitReady polls the server URL until it answers or timeout elapses
func (ws *webServer) waitReady(ctx context.Context, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, readyInterval, timeout, true, func(ctx context.Context) (bool, error) {
		if ws.exited != nil {
			select {
			case <-ws.exited:
				return false, fmt.Errorf("web server command exited early: %v", ws.err)
			default:
			}
		}
		return checkReady(ctx, ws.url) == nil, nil
	})
	if err != nil {
		if wait.Interrupted(err) {
			return fmt.Errorf("timed out after %s waiting for web server at %s", timeout, ws.url)
		}
		return err
	}
	return nil
}

// Stop shuts down a server this run started; a reused server is left alone
func (ws *webServer) Stop() error {
	switch {
	case ws.reused:
		return nil
	case ws.server != nil:
		err := cli.Shutdown(ws.server, stopTimeout, ws.logger)
		ws.listener.Close()
		return err
	case ws.cmd != nil:
		select {
		case <-ws.exited:
			return nil
		default:
		}
		if err := ws.cmd.Process.Signal(os.Interrupt); err != nil {
			return ws.cmd.Process.Kill()
		}
		select {
		case <-ws.exited:
		case <-time.After(stopTimeout):
			ws.logger.Warn("web server did not exit, killing it", "pid", ws.cmd.Process.Pid)
			return ws.cmd.Process.Kill()
		}
	}
	return nil
}

// checkReady reports whether url answers like a ready server (2xx, 3xx or 400-403)
func checkReady(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 403 {
		return fmt.Errorf("%s answered %d", url, resp.StatusCode)
	}
	return nil
}

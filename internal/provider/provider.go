package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/termgate/termgate/internal/config"
	"github.com/termgate/termgate/internal/logging"
	"github.com/termgate/termgate/internal/monitoring"
	"github.com/termgate/termgate/internal/runner"
	"github.com/termgate/termgate/internal/safety"
	"github.com/termgate/termgate/internal/terminal"
	"github.com/termgate/termgate/internal/transcript"
	"github.com/termgate/termgate/internal/types"
)

// Tool IDs are fixed; the names advertised to callers come from
// configuration.
const (
	ToolExec      = "process.exec"
	ToolInteract  = "process.interact"
	ToolTerminate = "process.terminate"
)

// Parameter descriptions shown to callers in the tool catalog. The
// terminal input description spells key sequences with literal
// backslashes so callers see the bytes to send.
const (
	ParamExecInput     = "Command to execute in the process"
	ParamExecTimeout   = "Timeout before termination (seconds, optional)"
	ParamTerminalInput = `Input to send to the running interactive process, if it is command to execute add \n . Example of keyboard: Left arrow: \x1b[D  Escape: \x1b Ctrl-C: \x03 Home: \x1b[H End: \x1b[F or \x1bOF Backspace: \x7f Delete: \x1b[3~ Tab: \x09 Enter: \n or \r (for nano) Page Down: \x1b[6~ `
	ParamTerminalWait  = "Wait delay to get response (seconds, optional)"
)

// Provider implements command execution and the interactive terminal.
type Provider struct {
	cfg     *config.Config
	log     *logging.Logger
	gate    *safety.Gate
	runner  *runner.Runner
	manager *terminal.Manager
	metrics *monitoring.Metrics
}

// New assembles the process provider from configuration. metrics and
// rec may be nil.
func New(cfg *config.Config, log *logging.Logger, metrics *monitoring.Metrics, rec *transcript.Recorder) (*Provider, error) {
	gate := safety.NewGate(cfg.Gate.ForbiddenWords)
	filter, err := safety.NewOutputFilter(cfg.Filter.Patterns)
	if err != nil {
		return nil, err
	}

	run := runner.New(cfg.Process.PathArgs, log).WithMetrics(metrics)

	mgr := terminal.NewManager(terminal.Config{
		PathArgs:        cfg.Process.PathArgs,
		Rows:            cfg.Tools.TerminalRows,
		Cols:            cfg.Tools.TerminalCols,
		SpawnGrace:      cfg.Process.SpawnGrace,
		ReadTimeout:     cfg.Process.ReadTimeout,
		FixControlChars: cfg.Process.FixControlChars,
	}, gate, filter, log).WithMetrics(metrics).WithRecorder(rec)

	return &Provider{
		cfg:     cfg,
		log:     log,
		gate:    gate,
		runner:  run,
		manager: mgr,
		metrics: metrics,
	}, nil
}

// Definition returns service metadata. Tools with an empty configured
// name are omitted; disabling the terminal tool also hides the
// terminate tool.
func (p *Provider) Definition() types.Service {
	tools := make([]types.Tool, 0, 3)
	if p.cfg.Tools.ExecName != "" {
		tools = append(tools, types.Tool{
			ID:          ToolExec,
			Name:        p.cfg.Tools.ExecName,
			Description: p.cfg.Tools.ExecDescription,
			Parameters: []types.Parameter{
				{Name: "input", Type: "string", Description: ParamExecInput, Required: true},
				{Name: "timeout", Type: "number", Description: ParamExecTimeout, Required: false},
			},
			Returns: "string",
		})
	}
	if p.cfg.Tools.TerminalName != "" {
		tools = append(tools,
			types.Tool{
				ID:          ToolInteract,
				Name:        p.cfg.Tools.TerminalName,
				Description: p.cfg.Tools.TerminalDescription,
				Parameters: []types.Parameter{
					{Name: "input", Type: "string", Description: ParamTerminalInput, Required: false},
					{Name: "wait", Type: "number", Description: ParamTerminalWait, Required: false},
				},
				Returns: "string",
			},
			types.Tool{
				ID:          ToolTerminate,
				Name:        p.cfg.Tools.TerminateName,
				Description: p.cfg.Tools.TerminateDescription,
				Parameters:  []types.Parameter{},
				Returns:     "string",
			},
		)
	}

	return types.Service{
		ID:          "process",
		Name:        "Process Service",
		Description: "One-shot command execution and a persistent interactive terminal",
		Category:    types.CategoryProcess,
		Capabilities: []string{
			"exec",
			"terminal",
			"screen",
		},
		Tools: tools,
	}
}

// Execute runs a process operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	reqID := uuid.NewString()
	p.log.Debug("tool call received",
		zap.String("request_id", reqID),
		zap.String("tool", toolID),
	)

	req, err := p.parseRequest(toolID, params)
	if err != nil {
		var verr *types.ValidationError
		if errors.As(err, &verr) {
			return failure(verr.Message)
		}
		return nil, err
	}
	return p.Handle(ctx, req)
}

// Handle dispatches one parsed request.
func (p *Provider) Handle(ctx context.Context, req types.Request) (*types.Result, error) {
	switch r := req.(type) {
	case *types.ExecRequest:
		return p.exec(ctx, r)
	case *types.InteractRequest:
		return p.interact(r)
	case *types.TerminateRequest:
		return p.terminate()
	default:
		return nil, fmt.Errorf("unknown request type: %T", req)
	}
}

// Manager exposes the terminal manager for passive observers.
func (p *Provider) Manager() *terminal.Manager {
	return p.manager
}

// Close releases the provider's terminal session.
func (p *Provider) Close() {
	p.manager.Close()
}

// parseRequest validates raw tool arguments into a typed request.
// Nothing beyond presence and type is checked here; the safety gate
// inspects content later.
func (p *Provider) parseRequest(toolID string, params map[string]interface{}) (types.Request, error) {
	switch toolID {
	case ToolExec:
		command, _ := params["input"].(string)
		if command == "" {
			return nil, &types.ValidationError{Message: "Error: Command not specified."}
		}
		timeout := time.Duration(p.cfg.Tools.ExecTimeout) * time.Second
		if t, ok := params["timeout"].(float64); ok && t > 0 {
			timeout = time.Duration(t * float64(time.Second))
		}
		return &types.ExecRequest{Command: command, Timeout: timeout}, nil

	case ToolInteract:
		var input *string
		if s, ok := params["input"].(string); ok && s != "" {
			input = &s
		}
		wait := time.Duration(p.cfg.Tools.TerminalWait * float64(time.Second))
		if w, ok := params["wait"].(float64); ok && w >= 0 {
			wait = time.Duration(w * float64(time.Second))
		}
		return &types.InteractRequest{Input: input, Wait: wait}, nil

	case ToolTerminate:
		return &types.TerminateRequest{}, nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}
}

func (p *Provider) exec(ctx context.Context, req *types.ExecRequest) (*types.Result, error) {
	timer := monitoring.NewTimer(p.metrics, "exec")

	if p.gate.RequiresConfirmation(req.Command) {
		if p.metrics != nil {
			p.metrics.RecordSafetyBlock("exec")
		}
		p.log.Warn("command held for confirmation")
		timer.Stop("blocked")
		return success(p.gate.Warning(req.Command))
	}

	output := p.runner.Run(ctx, req.Command, req.Timeout)
	timer.Stop("ok")
	return success(output)
}

func (p *Provider) interact(req *types.InteractRequest) (*types.Result, error) {
	timer := monitoring.NewTimer(p.metrics, "terminal")
	output := p.manager.Interact(req.Input, req.Wait)
	timer.Stop("ok")
	return success(output)
}

func (p *Provider) terminate() (*types.Result, error) {
	timer := monitoring.NewTimer(p.metrics, "terminal_terminate")
	output := p.manager.Terminate()
	timer.Stop("ok")
	return success(output)
}

func success(output string) (*types.Result, error) {
	return &types.Result{Success: true, Data: map[string]interface{}{"output": output}}, nil
}

func failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}

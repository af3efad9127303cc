package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/uzbridge/hemis-mcp/internal/catalog"
	"github.com/uzbridge/hemis-mcp/internal/logger"
	"github.com/uzbridge/hemis-mcp/pkg/hemis"
)

// Dispatcher turns tool invocations into upstream calls: catalogue
// lookup, argument validation, token acquisition, one HTTP call, and at
// most one re-login-and-replay after an upstream 401. Everything it
// returns is a payload or a classified error, never a panic.
type Dispatcher struct {
	transport hemis.Doer
	session   *hemis.Session
	language  string
	log       zerolog.Logger
}

// New wires a dispatcher. language is the process-wide default for the
// upstream language selector; explicit tool arguments override it.
func New(transport hemis.Doer, session *hemis.Session, language string) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		session:   session,
		language:  language,
		log:       logger.WithComponent("dispatch"),
	}
}

// Invoke executes one tool invocation. Unknown tools and argument
// problems fail before any network traffic. The single permitted retry
// is the re-login after an upstream authentication rejection; transport
// failures are never retried, so mutating endpoints cannot be duplicated.
func (d *Dispatcher) Invoke(ctx context.Context, tool string, args map[string]any) (json.RawMessage, error) {
	spec, ok := catalog.Lookup(tool)
	if !ok {
		return nil, &hemis.Error{Sentinel: hemis.ErrUnknownTool, Operation: tool}
	}

	req, err := spec.BuildRequest(args, d.language)
	if err != nil {
		return nil, err
	}

	log := d.log.With().
		Str("invocation", uuid.NewString()).
		Str("tool", tool).
		Logger()
	start := time.Now()

	var token string
	if spec.Auth {
		if token, err = d.session.Token(ctx); err != nil {
			log.Warn().Err(err).Msg("invocation failed before upstream call")
			return nil, err
		}
	}
	req.Token = token

	resp, err := d.transport.Do(ctx, req)
	if err != nil {
		log.Warn().Err(err).Msg("upstream call failed")
		return nil, err
	}

	if spec.Auth && resp.Status == http.StatusUnauthorized {
		log.Debug().Msg("token rejected, re-authenticating once")
		d.session.Invalidate(token)
		if token, err = d.session.Token(ctx); err != nil {
			return nil, err
		}
		req.Token = token
		if resp, err = d.transport.Do(ctx, req); err != nil {
			return nil, err
		}
		if resp.Status == http.StatusUnauthorized {
			return nil, &hemis.Error{
				Sentinel:  hemis.ErrAuthFailed,
				Operation: tool,
				Status:    resp.Status,
				Message:   resp.Snippet(),
			}
		}
	}

	payload, err := normalize(spec, resp)
	if err != nil {
		log.Warn().Str("kind", string(hemis.KindOf(err))).Err(err).Msg("invocation failed")
		return nil, err
	}
	log.Debug().Int("status", resp.Status).Dur("elapsed", time.Since(start)).Msg("invocation completed")
	return payload, nil
}

// normalize unwraps the {success, data} envelope according to the
// declared response shape. Object and list payloads come back bare;
// paginated payloads keep their {items, attributes} wrapper.
func normalize(spec catalog.EndpointSpec, resp *hemis.Response) (json.RawMessage, error) {
	if resp.Status < 200 || resp.Status > 299 {
		msg := resp.Snippet()
		if env, err := resp.Envelope(); err == nil && env.Error != "" {
			msg = env.Error
		}
		return nil, &hemis.Error{Sentinel: hemis.ErrUpstream, Operation: spec.Tool, Status: resp.Status, Message: msg}
	}

	env, err := resp.Envelope()
	if err != nil {
		return nil, &hemis.Error{Sentinel: hemis.ErrUpstream, Operation: spec.Tool, Status: resp.Status, Err: err}
	}
	if !env.Success {
		return nil, &hemis.Error{Sentinel: hemis.ErrUpstream, Operation: spec.Tool, Status: resp.Status, Message: env.Error}
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, &hemis.Error{Sentinel: hemis.ErrUpstream, Operation: spec.Tool, Message: "response carried no data"}
	}

	switch spec.Envelope {
	case catalog.EnvelopeList:
		if data[0] != '[' {
			return nil, &hemis.Error{Sentinel: hemis.ErrUpstream, Operation: spec.Tool, Message: "expected a list payload"}
		}
	case catalog.EnvelopeObject, catalog.EnvelopePaginated:
		if data[0] != '{' {
			return nil, &hemis.Error{Sentinel: hemis.ErrUpstream, Operation: spec.Tool, Message: "expected an object payload"}
		}
	}
	return json.RawMessage(data), nil
}

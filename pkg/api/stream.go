// Websocket streaming endpoint. A planner keeps one connection open and
// sends request frames, each carrying either a batch of positions or a
// batch of joint states; the server answers with the matching solutions
// in the same order, tagged with the request id.
package api

import (
	"net/http"
	"sync"

	"armkin-go/pkg/errors"
	"armkin-go/pkg/metrics"

	"github.com/gorilla/websocket"
)

// streamRequest is one inbound frame. Exactly one of Positions or
// Joints must be present.
type streamRequest struct {
	ID        int64       `json:"id"`
	Positions [][]float64 `json:"positions,omitempty"`
	Joints    [][]float64 `json:"joints,omitempty"`
}

// streamResponse is one outbound frame.
type streamResponse struct {
	ID        int64        `json:"id"`
	Joints    [][]float64  `json:"joints,omitempty"`
	Positions [][]float64  `json:"positions,omitempty"`
	Error     *streamError `json:"error,omitempty"`
}

type streamError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// wsClient wraps a websocket connection with a write lock so solve
// responses never interleave.
type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) send(resp streamResponse) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(resp)
}

// handleStream upgrades the connection and serves solve frames until
// the client disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	client := &wsClient{conn: conn}

	s.metrics.StreamClients.Add(nil, 1)
	defer func() {
		s.metrics.StreamClients.Add(nil, -1)
		conn.Close()
	}()
	s.logger.WithField("remote", conn.RemoteAddr().String()).Debug("stream client connected")

	for {
		var req streamRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.WithError(err).Debug("stream client read error")
			}
			return
		}

		resp := s.solveFrame(req)
		if err := client.send(resp); err != nil {
			s.logger.WithError(err).Debug("stream client write error")
			return
		}
	}
}

// solveFrame dispatches one stream request to the solver.
func (s *Server) solveFrame(req streamRequest) streamResponse {
	resp := streamResponse{ID: req.ID}

	switch {
	case req.Positions != nil && req.Joints != nil:
		resp.Error = toStreamError(errors.KinematicsInputError(
			"frame carries both positions and joints"))
	case req.Positions != nil:
		joints, err := s.solveIK(req.Positions)
		if err != nil {
			resp.Error = toStreamError(err)
		} else {
			resp.Joints = joints
		}
	case req.Joints != nil:
		positions, err := s.solveFK(req.Joints)
		if err != nil {
			resp.Error = toStreamError(err)
		} else {
			resp.Positions = positions
		}
	default:
		resp.Error = toStreamError(errors.KinematicsInputError(
			"frame carries neither positions nor joints"))
	}

	if resp.Error != nil {
		s.metrics.Errors.Inc(metrics.Labels{"code": resp.Error.Code})
	}
	return resp
}

func toStreamError(err error) *streamError {
	code := string(errors.ErrRuntime)
	if solverErr, ok := err.(*errors.SolverError); ok {
		code = string(solverErr.Code)
	}
	return &streamError{Code: code, Message: err.Error()}
}

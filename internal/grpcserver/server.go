// Package grpcserver exposes jobs.Service as the JobService gRPC API.
//
// It handles only transport concerns: metadata extraction, error mapping,
// and conversion between google.protobuf.Struct and the domain types.
// Request and response shapes:
//
//	CreateJob  {title, salary?, equity?, company_handle} → {job}
//	ListJobs   {titleLike?, minSalary?, hasEquity?}        → {jobs}
//	GetJob     {title}                                     → {job}
//	UpdateJob  {title, data: {...}}                        → {job}
//	RemoveJob  {title}                                     → {deleted}
package grpcserver

import (
	"context"
	"log/slog"
	"sort"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"jobmate/jobs-service/internal/apperror"
	"jobmate/jobs-service/internal/httpmw"
	"jobmate/jobs-service/internal/jobs"
	"jobmate/jobs-service/internal/sqlbuilder"
)

// Server implements JobServiceServer.
type Server struct {
	svc *jobs.Service
}

// NewServer constructs a gRPC Server backed by the given jobs.Service.
func NewServer(svc *jobs.Service) *Server {
	return &Server{svc: svc}
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// CreateJob stores a new job. Admin only.
func (s *Server) CreateJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	j, err := s.svc.Create(ctx, structFields(req))
	if err != nil {
		return nil, toGRPCError(err)
	}
	return jobResponse(j)
}

// ListJobs returns every job, or those matching the filter keys in req.
func (s *Server) ListJobs(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.svc.List(ctx, structFields(req))
	if err != nil {
		return nil, toGRPCError(err)
	}

	out := make([]any, 0, len(list))
	for _, j := range list {
		out = append(out, j.Map())
	}
	return newStruct(map[string]any{"jobs": out})
}

// GetJob returns the job named by req.title.
func (s *Server) GetJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	title, err := titleOf(req)
	if err != nil {
		return nil, err
	}

	j, err := s.svc.Get(ctx, title)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return jobResponse(j)
}

// UpdateJob applies req.data to the job named by req.title. Admin only.
// Fields of data are applied in key order, not the order the caller sent.
func (s *Server) UpdateJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	title, err := titleOf(req)
	if err != nil {
		return nil, err
	}

	j, err := s.svc.Update(ctx, title, structFields(req.GetFields()["data"].GetStructValue()))
	if err != nil {
		return nil, toGRPCError(err)
	}
	return jobResponse(j)
}

// RemoveJob deletes the job named by req.title. Admin only.
func (s *Server) RemoveJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	title, err := titleOf(req)
	if err != nil {
		return nil, err
	}

	if err := s.svc.Remove(ctx, title); err != nil {
		return nil, toGRPCError(err)
	}
	return newStruct(map[string]any{"deleted": title})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// requireAdmin applies the admin rule to the x-user-id and x-user-role
// metadata forwarded by the Gateway.
func requireAdmin(ctx context.Context) error {
	md, _ := metadata.FromIncomingContext(ctx)
	if err := httpmw.CheckAdmin(first(md, httpmw.HeaderUserID), first(md, httpmw.HeaderUserRole)); err != nil {
		return toGRPCError(err)
	}
	return nil
}

func first(md metadata.MD, key string) string {
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func titleOf(req *structpb.Struct) (string, error) {
	title := req.GetFields()["title"].GetStringValue()
	if title == "" {
		return "", status.Error(codes.InvalidArgument, "title is required")
	}
	return title, nil
}

// structFields flattens s into Fields sorted by key. A Struct carries no
// key order of its own. A nil Struct yields no fields.
func structFields(s *structpb.Struct) sqlbuilder.Fields {
	keys := make([]string, 0, len(s.GetFields()))
	for k := range s.GetFields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fs := make(sqlbuilder.Fields, 0, len(keys))
	for _, k := range keys {
		fs = append(fs, sqlbuilder.Field{Name: k, Value: s.GetFields()[k].AsInterface()})
	}
	return fs
}

func jobResponse(j *jobs.Job) (*structpb.Struct, error) {
	return newStruct(map[string]any{"job": j.Map()})
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return s, nil
}

// toGRPCError maps service errors to gRPC status errors. Anything that is
// not an apperror is logged and reported as Internal.
func toGRPCError(err error) error {
	if ae, ok := apperror.As(err); ok {
		return status.Error(ae.GRPCCode(), ae.Message())
	}
	slog.Error("grpc request failed", "err", err)
	return status.Error(codes.Internal, "internal server error")
}

package materializer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/sirupsen/logrus"
)

type AthenaAPI interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
}

type Runner struct {
	Client    AthenaAPI
	Workgroup string
	Database  string
	OutputS3  string // s3://bucket/prefix/
	Poll      time.Duration
	Logger    *logrus.Entry
}

func (r *Runner) ExecAndWait(ctx context.Context, sql string) (*types.QueryExecution, error) {
	startOut, err := r.Client.StartQueryExecution(ctx, &athena.StartQueryExecutionInput{
		QueryString: aws.String(sql),
		QueryExecutionContext: &types.QueryExecutionContext{
			Database: aws.String(r.Database),
		},
		ResultConfiguration: &types.ResultConfiguration{
			OutputLocation: aws.String(r.OutputS3),
		},
		WorkGroup: aws.String(r.Workgroup),
	})
	if err != nil {
		return nil, fmt.Errorf("start query: %w", err)
	}
	qid := aws.ToString(startOut.QueryExecutionId)
	log := r.log().WithField("qid", qid)
	log.Debug("athena query started")

	poll := r.Poll
	if poll <= 0 {
		poll = time.Second
	}
	tick := time.NewTicker(poll)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-tick.C:
			ge, err := r.Client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
				QueryExecutionId: aws.String(qid),
			})
			if err != nil {
				return nil, fmt.Errorf("get query execution: %w", err)
			}
			qe := ge.QueryExecution
			switch qe.Status.State {
			case types.QueryExecutionStateSucceeded:
				if st := qe.Statistics; st != nil {
					var scannedMB, execSec float64
					if st.DataScannedInBytes != nil {
						scannedMB = float64(*st.DataScannedInBytes) / 1024.0 / 1024.0
					}
					if st.EngineExecutionTimeInMillis != nil {
						execSec = float64(*st.EngineExecutionTimeInMillis) / 1000.0
					}
					log.WithField("scanned_mb", fmt.Sprintf("%.3f", scannedMB)).
						WithField("exec_s", fmt.Sprintf("%.2f", execSec)).
						Info("athena query succeeded")
				}
				return qe, nil
			case types.QueryExecutionStateFailed:
				return nil, errors.New("athena failed: " + aws.ToString(qe.Status.StateChangeReason))
			case types.QueryExecutionStateCancelled:
				return nil, errors.New("athena cancelled")
			default:
				// still running
			}
		}
	}
}

// Rows runs sql and returns the result set, header row first.
func (r *Runner) Rows(ctx context.Context, sql string) ([][]string, error) {
	exec, err := r.ExecAndWait(ctx, sql)
	if err != nil {
		return nil, err
	}
	var out [][]string
	var next *string
	for {
		gr, err := r.Client.GetQueryResults(ctx, &athena.GetQueryResultsInput{
			QueryExecutionId: exec.QueryExecutionId,
			NextToken:        next,
		})
		if err != nil {
			return nil, fmt.Errorf("get results: %w", err)
		}
		for _, row := range gr.ResultSet.Rows {
			rec := make([]string, len(row.Data))
			for i, d := range row.Data {
				rec[i] = aws.ToString(d.VarCharValue)
			}
			out = append(out, rec)
		}
		if gr.NextToken == nil {
			return out, nil
		}
		next = gr.NextToken
	}
}

func (r *Runner) CountRows(ctx context.Context, table string) (int64, error) {
	rows, err := r.Rows(ctx, BuildCount(r.Database, table))
	if err != nil {
		return 0, err
	}
	if len(rows) < 2 || len(rows[1]) < 1 {
		return 0, errors.New("unexpected COUNT(*) result shape")
	}
	var n int64
	if _, err := fmt.Sscan(rows[1][0], &n); err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return n, nil
}

func (r *Runner) log() *logrus.Entry {
	if r.Logger != nil {
		return r.Logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

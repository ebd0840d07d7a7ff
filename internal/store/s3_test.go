package store

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	parquet "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyler180/fpl-championship-analysis/internal/model"
)

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func TestUploaderKey(t *testing.T) {
	u := &Uploader{Bucket: "b", Prefix: "/fpl_curated/"}
	assert.Equal(t, "fpl_curated/player_seasons/part.parquet", u.Key("player_seasons", "part.parquet"))
	assert.Equal(t, "s3://b/fpl_curated/x/", u.Location(u.Key("x")+"/"))

	u.Prefix = ""
	assert.Equal(t, "x/y", u.Key("x", "/y"))
}

func TestUploadParquet_RoundTrip(t *testing.T) {
	rows := []model.PlayerSeason{
		{Name: "Ryan Sessegnon", Team: "Fulham", Position: "MID", TotalPoints: 40, ValueFirstGW: 65, Season: "2018-19", PromotedFromChampionship: 1},
		{Name: "Rúben Neves", Team: "Wolves", Position: "MID", TotalPoints: 98, ValueFirstGW: 50, Season: "2018-19", PromotedFromChampionship: 1},
	}
	fs := &fakeS3{}
	u := &Uploader{Client: fs, Bucket: "bucket", Prefix: "curated"}

	loc, err := UploadParquet(context.Background(), u, "player_seasons", rows)
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/curated/player_seasons/", loc)
	require.Len(t, fs.objects, 1)

	for key, b := range fs.objects {
		assert.True(t, strings.HasPrefix(key, "bucket/curated/player_seasons/part-"))
		assert.True(t, strings.HasSuffix(key, ".parquet"))
		back, err := parquet.Read[model.PlayerSeason](bytes.NewReader(b), int64(len(b)))
		require.NoError(t, err)
		assert.Equal(t, rows, back)
	}

	_, err = UploadParquet[model.PlayerSeason](context.Background(), u, "empty", nil)
	require.NoError(t, err)
	assert.Len(t, fs.objects, 1)
}

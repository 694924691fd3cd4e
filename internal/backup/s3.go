package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"schoolhub/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Mirror 备份产物的S3镜像
// 上传/下载失败只记日志，本地产物才是备份成败的权威信号
type s3Mirror struct {
	client *s3.Client
	bucket string
}

// newS3Mirror 创建S3镜像，未配置bucket时返回nil
func newS3Mirror(cfg *Config) *s3Mirror {
	if cfg.S3Bucket == "" {
		return nil
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.AWSAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		logger.GetLogger().Errorf("S3配置加载失败，镜像未启用: %v", err)
		return nil
	}

	return &s3Mirror{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3Bucket,
	}
}

// upload 上传备份产物（单文件或递归整个目录）
// 对象键格式：backups/<type>/<backup_id>[/<relative-file-path>]
func (s *s3Mirror) upload(record *Record) bool {
	log := logger.GetLogger()
	baseKey := fmt.Sprintf("backups/%s/%s", record.Type, record.BackupID)

	info, err := os.Stat(record.FilePath)
	if err != nil {
		log.Errorf("S3上传失败，产物不存在 %s: %v", record.FilePath, err)
		return false
	}

	if !info.IsDir() {
		if err := s.uploadFile(record.FilePath, baseKey); err != nil {
			log.Errorf("S3上传失败 %s: %v", baseKey, err)
			return false
		}
		log.Infof("备份已上传S3: %s", baseKey)
		return true
	}

	err = filepath.Walk(record.FilePath, func(path string, fi os.FileInfo, err error) error {
		if err != nil || fi.IsDir() {
			return err
		}
		rel, err := filepath.Rel(record.FilePath, path)
		if err != nil {
			return err
		}
		key := baseKey + "/" + filepath.ToSlash(rel)
		return s.uploadFile(path, key)
	})
	if err != nil {
		log.Errorf("S3上传失败 %s: %v", baseKey, err)
		return false
	}

	log.Infof("备份已上传S3: %s", baseKey)
	return true
}

func (s *s3Mirror) uploadFile(path, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	return err
}

// download 按前缀列举并下载指定备份的全部对象到本地目录
func (s *s3Mirror) download(backupType Type, backupID, localDir string) bool {
	log := logger.GetLogger()
	prefix := fmt.Sprintf("backups/%s/%s", backupType, backupID)

	ctx := context.Background()
	resp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		log.Errorf("S3列举失败 %s: %v", prefix, err)
		return false
	}
	if len(resp.Contents) == 0 {
		log.Errorf("S3中未找到备份: %s", backupID)
		return false
	}

	for _, obj := range resp.Contents {
		key := aws.ToString(obj.Key)
		rel := strings.TrimPrefix(key, prefix)
		rel = strings.TrimPrefix(rel, "/")
		localPath := filepath.Join(localDir, filepath.Base(backupID))
		if rel != "" {
			localPath = filepath.Join(localDir, rel)
		}

		if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
			log.Errorf("创建下载目录失败: %v", err)
			return false
		}
		if err := s.downloadObject(ctx, key, localPath); err != nil {
			log.Errorf("S3下载失败 %s: %v", key, err)
			return false
		}
	}

	log.Infof("备份已从S3下载: %s", backupID)
	return true
}

func (s *s3Mirror) downloadObject(ctx context.Context, key, localPath string) error {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.ReadFrom(resp.Body)
	return err
}

package crontab

import (
	"github.com/caiflower/tinyhttp/pkg/e"
	golocalv1 "github.com/caiflower/tinyhttp/pkg/golocal/v1"
	"github.com/caiflower/tinyhttp/pkg/logger"
	"github.com/caiflower/tinyhttp/pkg/tools"
	"github.com/robfig/cron/v3"
)

// CronManger 秒级cron任务管理，spec格式: 秒 分 时 日 月 周
type CronManger struct {
	name   string
	cron   *cron.Cron
	logger logger.ILog
}

func NewCronTabManger(name string, log logger.ILog) *CronManger {
	if log == nil {
		log = logger.DefaultLogger()
	}
	return &CronManger{name: name, cron: cron.New(cron.WithSeconds()), logger: log}
}

func (c *CronManger) Name() string {
	return "CRONTAB:" + c.name
}

func (c *CronManger) Start() error {
	c.cron.Start()
	return nil
}

// Close 停止调度并等待正在执行的任务结束
func (c *CronManger) Close() {
	<-c.cron.Stop().Done()
}

// AddFunc 每次执行都会生成新的traceID，panic会被拦截
func (c *CronManger) AddFunc(spec string, fn func()) (cron.EntryID, error) {
	return c.AddCronJob(spec, cron.FuncJob(fn))
}

func (c *CronManger) AddCronJob(spec string, job cron.Job) (cron.EntryID, error) {
	eid, err := c.cron.AddJob(spec, cron.FuncJob(func() {
		golocalv1.PutTraceID(tools.ShortUUID(16))
		defer golocalv1.Clean()
		defer e.OnError("[Crontab] " + c.name)
		job.Run()
	}))
	if err != nil {
		c.logger.Error("[Crontab] %s add job failed. spec=%s. err=%v", c.name, spec, err)
		return 0, err
	}
	c.logger.Info("[Crontab] %s add job. spec=%s. jobId=%v", c.name, spec, eid)
	return eid, nil
}

func (c *CronManger) RemoveCronJob(id cron.EntryID) {
	c.cron.Remove(id)
}

func (c *CronManger) JobCount() int {
	return len(c.cron.Entries())
}

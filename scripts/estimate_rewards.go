// 打印每个学习材料的预计学习时长与奖励分钟数
//
// 用于调整材料的固定奖励前核对计算结果，不会修改数据库。
//
// 用法: go run scripts/estimate_rewards.go [-config configs]

package main

import (
	"braingain_backend/internal/config"
	"braingain_backend/internal/repository"
	"braingain_backend/internal/service"
	"braingain_backend/pkg/database"
	"braingain_backend/pkg/logger"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	ctx := context.Background()
	materials, err := repository.NewMaterialRepository(db).List(ctx)
	if err != nil {
		log.Fatalf("读取材料失败: %v", err)
	}
	rewards := repository.NewRewardRepository(db)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tMINUTES\tREWARD\tFIXED\tCLAIMED\tTITLE")
	for i := range materials {
		m := &materials[i]
		claimed := "-"
		if r, err := rewards.FindByMaterial(ctx, m.ID); err == nil && r != nil {
			claimed = fmt.Sprint(r.Minutes)
		}
		fixed := "-"
		if m.RewardMinutes != nil {
			fixed = fmt.Sprint(*m.RewardMinutes)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			m.ID,
			m.Type,
			service.EstimateDuration(m.ContentText, m.Type),
			service.RewardFor(m),
			fixed,
			claimed,
			m.Title,
		)
	}
	w.Flush()
}

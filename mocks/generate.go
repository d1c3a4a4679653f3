package mocks

//go:generate mockgen -destination=./mock_simulator.go -package=mocks github.com/rxtech-lab/argo-walkforward/internal/walkforward Simulator
//go:generate mockgen -destination=./mock_loader.go -package=mocks github.com/rxtech-lab/argo-walkforward/internal/datasource Loader

package dataset

// Sample returns the compiled-in investor dataset.
func Sample() Dataset {
	return Dataset{
		Adoption: []AdoptionPoint{
			{Period: "Jan", ActiveAgents: 1250, NewAgents: 180, ChurnRate: 3.2},
			{Period: "Feb", ActiveAgents: 1420, NewAgents: 220, ChurnRate: 2.8},
			{Period: "Mar", ActiveAgents: 1680, NewAgents: 290, ChurnRate: 2.1},
			{Period: "Apr", ActiveAgents: 2150, NewAgents: 510, ChurnRate: 1.9},
			{Period: "May", ActiveAgents: 2780, NewAgents: 680, ChurnRate: 1.6},
			{Period: "Jun", ActiveAgents: 3520, NewAgents: 820, ChurnRate: 1.4},
		},
		Revenue: []RevenuePoint{
			{Period: "Jan", AvgRevenue: 1200, TotalRevenue: 1500000},
			{Period: "Feb", AvgRevenue: 1350, TotalRevenue: 1917000},
			{Period: "Mar", AvgRevenue: 1480, TotalRevenue: 2486400},
			{Period: "Apr", AvgRevenue: 1620, TotalRevenue: 3483000},
			{Period: "May", AvgRevenue: 1750, TotalRevenue: 4865000},
			{Period: "Jun", AvgRevenue: 1850, TotalRevenue: 6512000},
		},
		Performance: []PerformancePoint{
			{Period: "Jan", SuccessRate: 87.2, AvgResponseTime: 0.8, TasksCompleted: 125000},
			{Period: "Feb", SuccessRate: 89.1, AvgResponseTime: 0.7, TasksCompleted: 156000},
			{Period: "Mar", SuccessRate: 91.3, AvgResponseTime: 0.6, TasksCompleted: 198000},
			{Period: "Apr", SuccessRate: 93.7, AvgResponseTime: 0.5, TasksCompleted: 267000},
			{Period: "May", SuccessRate: 95.2, AvgResponseTime: 0.4, TasksCompleted: 341000},
			{Period: "Jun", SuccessRate: 96.8, AvgResponseTime: 0.3, TasksCompleted: 428000},
		},
		TaskTypes: []TaskTypeShare{
			{Category: "Data Analysis", Share: 35, ColorToken: "indigo"},
			{Category: "Customer Support", Share: 28, ColorToken: "mint"},
			{Category: "Content Generation", Share: 22, ColorToken: "gold"},
			{Category: "Process Automation", Share: 15, ColorToken: "coral"},
		},
		Summary: []SummaryMetric{
			{Title: "Active Agents", DisplayValue: "3,520", ChangePercent: 26.6, Subtitle: "Current month", ColorToken: "blue", IconToken: "users"},
			{Title: "Avg Revenue/Agent", DisplayValue: "$1,850", ChangePercent: 14.2, Subtitle: "Monthly average", ColorToken: "green", IconToken: "dollar"},
			{Title: "Task Success Rate", DisplayValue: "96.8%", ChangePercent: 3.2, Subtitle: "June performance", ColorToken: "purple", IconToken: "target"},
			{Title: "Total Revenue", DisplayValue: "$6.51M", ChangePercent: 33.8, Subtitle: "Monthly recurring", ColorToken: "amber", IconToken: "trending-up"},
		},
	}
}
